package components

import (
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards so sections line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 80)
}

// Card wraps content in a rounded-border box of content width cw.
func Card(content string, cw int, accent bool) string {
	border := theme.Border
	if accent {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// Center places block in the middle of a line of the given width.
func Center(block string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
