package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/router"
	"github.com/cuongduong73/ankiquiz/internal/screen"
	"github.com/cuongduong73/ankiquiz/internal/screens/attempt"
	"github.com/cuongduong73/ankiquiz/internal/screens/history"
	"github.com/cuongduong73/ankiquiz/internal/store"
	"github.com/cuongduong73/ankiquiz/internal/ui/components"
	"github.com/cuongduong73/ankiquiz/internal/ui/layout"
	"github.com/cuongduong73/ankiquiz/internal/ui/theme"
)

// Setup is the quiz configuration chosen on the command line.
type Setup struct {
	// Allocations fixes the question mix. When empty, QuestionsPerType
	// questions of each ticked dataset type share the points evenly.
	Allocations      []quiz.TypeAllocation
	QuestionsPerType int
	DurationMinutes  int
	// Selected pre-selects datasets by ID.
	Selected []string
}

type datasetsLoadedMsg struct {
	Sets []dataset.Dataset
	Err  error
}

type startQuizMsg struct{}

type openHistoryMsg struct{}

// HomeScreen lists the saved datasets and starts a quiz from the ones
// the learner ticks.
type HomeScreen struct {
	datasets store.DatasetRepo
	attempts store.AttemptRepo
	deps     attempt.Deps
	setup    Setup

	sets     []dataset.Dataset
	selected map[string]bool
	cursor   int
	menu     components.Menu
	onMenu   bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(datasets store.DatasetRepo, attempts store.AttemptRepo, deps attempt.Deps, setup Setup) *HomeScreen {
	selected := make(map[string]bool, len(setup.Selected))
	for _, id := range setup.Selected {
		selected[id] = true
	}
	s := &HomeScreen{
		datasets: datasets,
		attempts: attempts,
		deps:     deps,
		setup:    setup,
		selected: selected,
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start quiz", Key: "s", Action: func() tea.Cmd { return func() tea.Msg { return startQuizMsg{} } }},
		{Label: "History", Key: "h", Action: func() tea.Cmd { return func() tea.Msg { return openHistoryMsg{} } }, Disabled: attempts == nil},
		{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *HomeScreen) Init() tea.Cmd {
	repo := s.datasets
	return func() tea.Msg {
		sets, err := repo.List(context.Background())
		return datasetsLoadedMsg{Sets: sets, Err: err}
	}
}

// Resume reloads the dataset list when the learner comes back from a quiz
// or the history, keeping the ticked datasets.
func (s *HomeScreen) Resume() tea.Cmd {
	s.errMsg = ""
	s.onMenu = false
	return s.Init()
}

func (s *HomeScreen) Title() string {
	return "Datasets"
}

func (s *HomeScreen) KeyHints() []layout.KeyHint {
	if s.onMenu {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Tab", Description: "Datasets"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Toggle"},
		{Key: "A", Description: "All"},
		{Key: "Enter", Description: "Start"},
		{Key: "Tab", Description: "Menu"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case datasetsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.sets = msg.Sets
		s.cursor = min(s.cursor, max(len(s.sets)-1, 0))
		return s, nil

	case startQuizMsg:
		return s, s.start()

	case openHistoryMsg:
		if s.attempts == nil {
			return s, nil
		}
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: history.New(s.attempts, s.deps)} }

	case tea.KeyMsg:
		if msg.String() == "tab" {
			s.onMenu = !s.onMenu
			return s, nil
		}
		if s.onMenu {
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
		return s, s.handleListKey(msg.String())
	}
	return s, nil
}

func (s *HomeScreen) handleListKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.sets)-1 {
			s.cursor++
		}
	case "space", " ":
		if s.cursor < len(s.sets) {
			id := s.sets[s.cursor].ID
			s.selected[id] = !s.selected[id]
		}
	case "a":
		all := len(s.selectedIDs()) < len(s.sets)
		for _, d := range s.sets {
			s.selected[d.ID] = all
		}
	case "enter":
		return s.start()
	case "h":
		return func() tea.Msg { return openHistoryMsg{} }
	}
	return nil
}

func (s *HomeScreen) selectedIDs() []string {
	var ids []string
	for _, d := range s.sets {
		if s.selected[d.ID] {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// start creates the quiz from the ticked datasets and pushes the quiz
// screen. Configuration errors stay on this screen.
func (s *HomeScreen) start() tea.Cmd {
	s.errMsg = ""
	ids := s.selectedIDs()
	if _, err := s.deps.Manager.CreateQuiz(s.sets, ids, s.allocations(ids), s.setup.DurationMinutes); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	deps := s.deps
	if deps.Name == "" {
		deps.Name = s.quizName(ids)
	}
	next := attempt.NewQuiz(deps)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

// allocations returns the fixed question mix, or an even split over the
// types of the ticked datasets.
func (s *HomeScreen) allocations(ids []string) []quiz.TypeAllocation {
	if len(s.setup.Allocations) > 0 {
		return s.setup.Allocations
	}
	return quiz.EvenAllocations(dataset.Select(s.sets, ids), s.setup.QuestionsPerType)
}

func (s *HomeScreen) quizName(ids []string) string {
	var names []string
	for _, d := range dataset.Select(s.sets, ids) {
		names = append(names, d.Name)
	}
	return strings.Join(names, " + ")
}

func (s *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading datasets...")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Choose datasets"))
	b.WriteString("\n\n")

	if len(s.sets) == 0 {
		b.WriteString(theme.Hint.Render("No datasets yet. Add one with `ankiquiz datasets import <file>`."))
		b.WriteString("\n")
	}
	for i, d := range s.sets {
		box := "[ ]"
		if s.selected[d.ID] {
			box = "[x]"
		}
		prefix := "  "
		style := theme.Unselected
		if i == s.cursor && !s.onMenu {
			prefix = "▸ "
			style = theme.Selected
		}
		meta := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %s · %d cards", d.Type.Short(), d.CardCount()))
		b.WriteString(style.Render(fmt.Sprintf("%s%s %s", prefix, box, d.Name)) + meta)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.renderSetup())
	b.WriteString("\n")
	b.WriteString(s.menu.View())

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	return components.Center(components.Card(b.String(), cw+4, false), width)
}

func (s *HomeScreen) renderSetup() string {
	var parts []string
	for _, a := range s.allocations(s.selectedIDs()) {
		if a.Count == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d×%.2g pts", a.Type.Short(), a.Count, a.PerQuestion()))
	}
	if len(parts) == 0 {
		parts = append(parts, "tick a dataset")
	}
	line := fmt.Sprintf("%d min · %s", s.setup.DurationMinutes, strings.Join(parts, ", "))
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)
}
