// Package theme holds the colours and text styles shared by every screen.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. The blues follow Anki's own deck browser.
var (
	Primary   = lipgloss.Color("#2F80ED")
	Secondary = lipgloss.Color("#56CCF2")
	Accent    = lipgloss.Color("#F2C94C")
	Success   = lipgloss.Color("#27AE60")
	Error     = lipgloss.Color("#EB5757")
	Text      = lipgloss.Color("#F2F2F2")
	TextDim   = lipgloss.Color("#9AA5B1")
	BgCard    = lipgloss.Color("#1F2933")
	Border    = lipgloss.Color("#3E4C59")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
)

var (
	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Warning    = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// ScoreColor grades a percentage: green from 80, amber from 50, red below.
func ScoreColor(percent float64) color.Color {
	switch {
	case percent >= 80:
		return Success
	case percent >= 50:
		return Accent
	default:
		return Error
	}
}
