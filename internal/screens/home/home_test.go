package home

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/router"
	"github.com/cuongduong73/ankiquiz/internal/screens/attempt"
	"github.com/cuongduong73/ankiquiz/internal/screens/history"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

// stubDatasets implements store.DatasetRepo over a fixed slice.
type stubDatasets struct {
	sets []dataset.Dataset
}

func (s *stubDatasets) Save(context.Context, *dataset.Dataset) error { return nil }
func (s *stubDatasets) List(context.Context) ([]dataset.Dataset, error) {
	return s.sets, nil
}
func (s *stubDatasets) Get(context.Context, string) (*dataset.Dataset, error) { return nil, nil }
func (s *stubDatasets) Delete(context.Context, string) (bool, error)         { return false, nil }
func (s *stubDatasets) Clear(context.Context) (int, error)                   { return 0, nil }
func (s *stubDatasets) Stats(context.Context) (store.DatasetStats, error) {
	return store.DatasetStats{}, nil
}

// stubAttempts implements store.AttemptRepo with no history.
type stubAttempts struct{}

func (stubAttempts) Save(context.Context, *store.Attempt) error { return nil }
func (stubAttempts) List(context.Context, store.QueryOpts) ([]store.Attempt, error) {
	return nil, nil
}
func (stubAttempts) Get(context.Context, string) (*store.Attempt, error) { return nil, nil }

func testSets() []dataset.Dataset {
	cards := []dataset.Card{
		{ID: 1, Question: "chó", Answer: "dog"},
		{ID: 2, Question: "mèo", Answer: "cat"},
		{ID: 3, Question: "cá", Answer: "fish"},
	}
	return []dataset.Dataset{
		{ID: "animals", Name: "Animals", Type: dataset.TypeShortAnswer, Cards: cards},
		{ID: "colors", Name: "Colors", Type: dataset.TypeShortAnswer, Cards: cards},
	}
}

func newHome(t *testing.T) (*HomeScreen, *quiz.Manager) {
	t.Helper()
	m := quiz.NewManager(quiz.WithShuffler(shuffle.NewSeeded(7)))
	setup := Setup{
		Allocations:     []quiz.TypeAllocation{{Type: dataset.TypeShortAnswer, Count: 2, TotalPoints: 10}},
		DurationMinutes: 5,
	}
	s := New(&stubDatasets{sets: testSets()}, stubAttempts{}, attempt.Deps{Manager: m}, setup)
	s.Update(s.Init()())
	return s, m
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestHome_ListsDatasets(t *testing.T) {
	s, _ := newHome(t)

	view := s.View(100, 30)
	for _, want := range []string{"Animals", "Colors", "sa · 3 cards", "5 min"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHome_StartRequiresSelection(t *testing.T) {
	s, m := newHome(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no navigation without a selection")
	}
	if !strings.Contains(s.errMsg, "select at least one dataset") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if m.Phase() != quiz.PhaseIdle {
		t.Errorf("phase = %v, want idle", m.Phase())
	}
}

func TestHome_StartPushesQuiz(t *testing.T) {
	s, m := newHome(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected push command, errMsg=%q", s.errMsg)
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*attempt.QuizScreen); !ok {
		t.Errorf("expected *attempt.QuizScreen, got %T", msg.Screen)
	}
	st := m.State()
	if st == nil || len(st.Questions) != 2 || st.Duration != 5*time.Minute {
		t.Fatalf("unexpected quiz state: %+v", st)
	}
}

func TestHome_ToggleAll(t *testing.T) {
	s, _ := newHome(t)

	s.Update(key('a'))
	if got := len(s.selectedIDs()); got != 2 {
		t.Fatalf("selected %d, want 2", got)
	}
	if name := s.quizName(s.selectedIDs()); name != "Animals + Colors" {
		t.Errorf("quizName = %q", name)
	}
	s.Update(key('a'))
	if got := len(s.selectedIDs()); got != 0 {
		t.Errorf("selected %d after second toggle, want 0", got)
	}
}

func TestHome_MenuOpensHistory(t *testing.T) {
	s, _ := newHome(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	s.Update(key('j'))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected menu action")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("expected *history.HistoryScreen, got %T", msg.Screen)
	}
}

func TestHome_ResumeReloadsAndKeepsSelection(t *testing.T) {
	s, _ := newHome(t)
	s.Update(key(' '))
	s.errMsg = "stale"

	repo := s.datasets.(*stubDatasets)
	repo.sets = testSets()[:1]

	cmd := s.Resume()
	if cmd == nil {
		t.Fatal("expected a reload command")
	}
	s.Update(cmd())

	if s.errMsg != "" {
		t.Errorf("errMsg = %q, want cleared", s.errMsg)
	}
	if len(s.sets) != 1 {
		t.Fatalf("got %d datasets after reload, want 1", len(s.sets))
	}
	if ids := s.selectedIDs(); len(ids) != 1 || ids[0] != "animals" {
		t.Errorf("selected = %v, want [animals]", ids)
	}
}

func TestHome_DefaultSplitCoversOnlyTickedTypes(t *testing.T) {
	mc := []dataset.Card{
		{ID: 10, Question: "2+2?", Choices: []string{"3", "4"}, Answer: "b"},
		{ID: 11, Question: "3+3?", Choices: []string{"6", "7"}, Answer: "a"},
	}
	sets := append(testSets()[:1], dataset.Dataset{ID: "sums", Name: "Sums", Type: dataset.TypeMultipleChoice, Cards: mc})
	m := quiz.NewManager(quiz.WithShuffler(shuffle.NewSeeded(3)))
	s := New(&stubDatasets{sets: sets}, stubAttempts{}, attempt.Deps{Manager: m}, Setup{QuestionsPerType: 2, DurationMinutes: 5})
	s.Update(s.Init()())

	if view := s.View(100, 30); !strings.Contains(view, "tick a dataset") {
		t.Errorf("setup line should wait for a selection:\n%s", view)
	}

	s.Update(key(' '))
	if view := s.View(100, 30); !strings.Contains(view, "sa 2×5 pts") || strings.Contains(view, "mc 2×") {
		t.Errorf("setup line should only cover short answer:\n%s", view)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected push command, errMsg=%q", s.errMsg)
	}
	st := m.State()
	if st == nil || len(st.Questions) != 2 {
		t.Fatalf("unexpected quiz state: %+v", st)
	}
	if got := st.MaxScore(); got < quiz.TotalPoints-quiz.PointsTolerance {
		t.Errorf("max score = %.2f, want %.0f", got, quiz.TotalPoints)
	}
}
