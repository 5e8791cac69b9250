package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Key, when set, runs the item directly.
type MenuItem struct {
	Label    string
	Key      string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. The cursor skips disabled items and
// wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	return m
}

// move steps the cursor by dir to the next enabled item.
func (m *Menu) move(dir int) {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((m.Selected+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		return m, m.run(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Key != "" && item.Key == k {
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m *Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled || m.Items[i].Action == nil {
		return nil
	}
	m.Selected = i
	return m.Items[i].Action()
}

func (m Menu) View() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	for i, item := range m.Items {
		hint := ""
		if item.Key != "" {
			hint = dim.Render("  " + item.Key)
		}
		switch {
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ "+item.Label) + hint)
		default:
			b.WriteString(theme.Unselected.Render("    "+item.Label) + hint)
		}
		b.WriteString("\n")
	}
	return b.String()
}
