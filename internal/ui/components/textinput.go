package components

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

// AnswerLimit caps typed answers.
const AnswerLimit = 200

// TextInput is a single-line answer field built on bubbles/textinput. A
// character counter appears once the answer nears AnswerLimit.
type TextInput struct {
	model textinput.Model
}

// NewTextInput creates a focused input holding value.
func NewTextInput(placeholder, value string, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = AnswerLimit
	ti.Prompt = "› "
	if width > 0 {
		ti.SetWidth(width)
	}
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return TextInput{model: ti}
}

func (t TextInput) Init() tea.Cmd {
	return t.model.Focus()
}

// Update forwards msg to the field and reports whether the text changed.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd, bool) {
	before := t.model.Value()
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd, t.model.Value() != before
}

func (t TextInput) View() string {
	view := t.model.View()
	n := len([]rune(t.model.Value()))
	if n >= AnswerLimit*3/4 {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d/%d", n, AnswerLimit))
	}
	return view
}

func (t TextInput) Value() string {
	return t.model.Value()
}
