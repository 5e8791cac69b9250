// Package history lists submitted attempts and lets the learner reopen
// their questions for another try.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/router"
	"github.com/cuongduong73/ankiquiz/internal/screen"
	"github.com/cuongduong73/ankiquiz/internal/screens/attempt"
	"github.com/cuongduong73/ankiquiz/internal/store"
	"github.com/cuongduong73/ankiquiz/internal/ui/components"
	"github.com/cuongduong73/ankiquiz/internal/ui/layout"
	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

// pageSize is how many attempts the screen loads.
const pageSize = 50

type loadedMsg struct {
	attempts []store.Attempt
	err      error
}

// HistoryScreen shows past attempts, newest first. Enter opens the
// per-question outcomes of one attempt.
type HistoryScreen struct {
	repo store.AttemptRepo
	deps attempt.Deps

	items  []store.Attempt
	cursor int
	open   int
	loaded bool
	err    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates the screen. deps is used to retake an attempt.
func New(repo store.AttemptRepo, deps attempt.Deps) *HistoryScreen {
	return &HistoryScreen{repo: repo, deps: deps, open: -1}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		items, err := repo.List(context.Background(), store.QueryOpts{Limit: pageSize})
		return loadedMsg{attempts: items, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
	}
	if s.deps.Manager != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retake"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.err = msg.err.Error()
			return s, nil
		}
		s.items = msg.attempts
		return s, nil

	case tea.KeyMsg:
		s.err = ""
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = max(min(s.cursor+1, len(s.items)-1), 0)
		case "enter":
			if s.open == s.cursor {
				s.open = -1
			} else {
				s.open = s.cursor
			}
		case "r":
			return s, s.retake()
		}
	}
	return s, nil
}

// retake loads the questions of the selected attempt into the manager
// with the attempt's time limit and opens the quiz screen.
func (s *HistoryScreen) retake() tea.Cmd {
	if s.deps.Manager == nil || s.cursor >= len(s.items) {
		return nil
	}
	a := s.items[s.cursor]
	var qs question.List
	if err := json.Unmarshal(a.Questions, &qs); err != nil {
		s.err = fmt.Sprintf("attempt %s: %v", a.ID, err)
		return nil
	}
	if _, err := s.deps.Manager.LoadQuiz(qs, a.Duration); err != nil {
		s.err = err.Error()
		return nil
	}
	deps := s.deps
	deps.Name = a.Name
	next := attempt.NewQuiz(deps)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *HistoryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	switch {
	case !s.loaded:
		return components.Center(dim.Render("\n\nLoading history..."), width)
	case len(s.items) == 0 && s.err == "":
		return components.Center(dim.Italic(true).Render("\n\nNo attempts yet. Take a quiz!"), width)
	}

	var b strings.Builder
	rows := max(height-4, 3)
	first := max(min(s.cursor-rows/2, len(s.items)-rows), 0)
	for i := first; i < len(s.items) && i < first+rows; i++ {
		b.WriteString(s.row(i, cw))
		b.WriteString("\n")
		if i == s.open {
			b.WriteString(outcomes(s.items[i], cw))
		}
	}
	if s.err != "" {
		b.WriteString("\n" + theme.Incorrect.Render("Error: "+s.err) + "\n")
	}
	return components.Center(lipgloss.NewStyle().Width(cw).Render(b.String()), width)
}

func (s *HistoryScreen) row(i, cw int) string {
	a := s.items[i]
	pct := 0.0
	if a.MaxScore > 0 {
		pct = 100 * a.TotalScore / a.MaxScore
	}
	score := lipgloss.NewStyle().Foreground(theme.ScoreColor(pct)).Bold(true).
		Render(fmt.Sprintf("%.2f/%.0f", a.TotalScore, a.MaxScore))
	tail := fmt.Sprintf("  %d/%d correct  %s", a.CorrectCount, a.TotalQuestions, layout.FormatCountdown(a.TimeSpent))

	prefix, style := "  ", theme.Unselected
	if i == s.cursor {
		prefix, style = "▸ ", theme.Selected
	}
	when := a.SubmittedAt.Local().Format("Jan 02 15:04")
	nameWidth := max(cw-lipgloss.Width(score+tail)-len(when)-6, 8)
	head := style.Render(fmt.Sprintf("%s%s  %-*s", prefix, when, nameWidth, clip(a.Name, nameWidth)))
	return head + "  " + score + tail
}

func outcomes(a store.Attempt, cw int) string {
	var b strings.Builder
	detail := lipgloss.NewStyle().Foreground(theme.TextDim).PaddingLeft(4)
	for _, o := range a.Outcomes {
		mark := theme.Correct.Render("✓")
		if !o.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		line := fmt.Sprintf("%d. %s  (%s → %s)", o.Index+1, clip(o.Prompt, cw/2), orNone(o.Answer), o.Solution)
		b.WriteString(detail.Render(mark+" "+line) + "\n")
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "no answer"
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
