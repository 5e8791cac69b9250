package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

// ProgressBar is a horizontal bar filled to Ratio, which is clamped to
// [0, 1]. Fill defaults to the secondary colour.
type ProgressBar struct {
	Label   string
	Ratio   float64
	Width   int
	Fill    color.Color
	Caption string
}

// NewScoreBar shows a score as a bar coloured by grade, captioned with the
// percentage.
func NewScoreBar(percent float64, width int) ProgressBar {
	return ProgressBar{
		Ratio:   percent / 100,
		Width:   width,
		Fill:    theme.ScoreColor(percent),
		Caption: fmt.Sprintf("%.0f%%", percent),
	}
}

// NewAnsweredBar shows how many questions have an answer.
func NewAnsweredBar(answered, total, width int) ProgressBar {
	ratio := 0.0
	if total > 0 {
		ratio = float64(answered) / float64(total)
	}
	return ProgressBar{
		Label:   "Answered",
		Ratio:   ratio,
		Width:   width,
		Caption: fmt.Sprintf("%d/%d", answered, total),
	}
}

// View renders the bar in exactly Width cells when Width leaves room for
// at least four bar cells.
func (p ProgressBar) View() string {
	var head, tail string
	if p.Label != "" {
		head = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Caption != "" {
		tail = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + p.Caption)
	}

	cells := max(p.Width-lipgloss.Width(head)-lipgloss.Width(tail), 4)
	filled := int(float64(cells) * min(max(p.Ratio, 0), 1))

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	bar := lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", cells-filled))
	return head + bar + tail
}
