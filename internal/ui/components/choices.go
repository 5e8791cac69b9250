package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

// ChoiceList is a lettered single-choice selector. Chosen is -1 until the
// learner picks an option. With Reveal set, Correct is highlighted and a
// wrong pick is marked.
type ChoiceList struct {
	Options []string
	Cursor  int
	Chosen  int
	Correct int
	Reveal  bool
}

// NewChoiceList creates a selector with the cursor on chosen, or on the
// first option when nothing is chosen.
func NewChoiceList(options []string, chosen int) ChoiceList {
	return ChoiceList{
		Options: options,
		Cursor:  max(chosen, 0),
		Chosen:  chosen,
		Correct: -1,
	}
}

// Update moves the cursor. Picking is left to the caller so it can store
// the answer.
func (c ChoiceList) Update(msg tea.Msg) ChoiceList {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	}
	return c
}

// View renders the options.
func (c ChoiceList) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		marker := "( )"
		if i == c.Chosen {
			marker = "(•)"
		}
		prefix := "  "
		if i == c.Cursor && !c.Reveal {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %c. %s", prefix, marker, 'A'+i, opt)

		style := theme.Unselected
		switch {
		case c.Reveal && i == c.Correct:
			style = theme.Correct
		case c.Reveal && i == c.Chosen:
			style = theme.Incorrect
		case c.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// Verdict is a statement row in a StatementList.
type Verdict struct {
	Text string
	// Value is the learner's verdict, nil when unanswered.
	Value *bool
	// Expected is shown when the list is revealed.
	Expected bool
}

// StatementList renders true/false statements with a cursor row.
type StatementList struct {
	Rows   []Verdict
	Cursor int
	Reveal bool
}

// Update moves the cursor between statements.
func (s StatementList) Update(msg tea.Msg) StatementList {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	switch kmsg.String() {
	case "up", "k":
		if s.Cursor > 0 {
			s.Cursor--
		}
	case "down", "j":
		if s.Cursor < len(s.Rows)-1 {
			s.Cursor++
		}
	}
	return s
}

// View renders each statement with its T/F toggle.
func (s StatementList) View(width int) string {
	var b strings.Builder
	for i, r := range s.Rows {
		t, f := "[ ] T", "[ ] F"
		if r.Value != nil {
			if *r.Value {
				t = "[x] T"
			} else {
				f = "[x] F"
			}
		}
		prefix := "  "
		if i == s.Cursor && !s.Reveal {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d. %s  %s  %s", prefix, i+1, t, f, r.Text)

		style := theme.Unselected
		switch {
		case s.Reveal && r.Value != nil && *r.Value == r.Expected:
			style = theme.Correct
		case s.Reveal:
			style = theme.Incorrect
			line += fmt.Sprintf("  (%s)", verdictWord(r.Expected))
		case i == s.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func verdictWord(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
