package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/cuongduong73/ankiquiz/internal/screen"
)

type stubScreen struct {
	name    string
	inits   int
	resumes int
	got     []tea.Msg
}

type resumedMsg struct{ name string }

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.name }
func (s *stubScreen) Title() string        { return s.name }

// resumingScreen also implements screen.Resumer.
type resumingScreen struct{ stubScreen }

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumes++
	name := s.name
	return func() tea.Msg { return resumedMsg{name: name} }
}

func names(r *Router) []string {
	var out []string
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func TestQuizFlowNavigation(t *testing.T) {
	home := &resumingScreen{stubScreen{name: "datasets"}}
	r := New(home)

	quiz := &stubScreen{name: "quiz"}
	r.Update(PushScreenMsg{Screen: quiz})
	if quiz.inits != 1 {
		t.Fatalf("quiz Init ran %d times, want 1", quiz.inits)
	}

	result := &stubScreen{name: "result"}
	r.Update(ReplaceScreenMsg{Screen: result})
	if got := names(r); len(got) != 2 || got[1] != "result" {
		t.Fatalf("stack after replace = %v", got)
	}
	if result.inits != 1 {
		t.Errorf("result Init ran %d times, want 1", result.inits)
	}

	cmd := r.Update(PopScreenMsg{})
	if r.Active() != home {
		t.Fatalf("active = %q, want datasets", r.Active().Title())
	}
	if home.resumes != 1 {
		t.Errorf("home resumed %d times, want 1", home.resumes)
	}
	if cmd == nil {
		t.Fatal("expected the resume command")
	}
	if msg, ok := cmd().(resumedMsg); !ok || msg.name != "datasets" {
		t.Errorf("resume command returned %#v", msg)
	}
}

func TestPopNeverRemovesRoot(t *testing.T) {
	home := &resumingScreen{stubScreen{name: "datasets"}}
	r := New(home)

	if cmd := r.Pop(); cmd != nil {
		t.Error("popping the root should do nothing")
	}
	if r.Depth() != 1 || home.resumes != 0 {
		t.Errorf("depth %d, resumes %d", r.Depth(), home.resumes)
	}
}

func TestPopToRoot(t *testing.T) {
	home := &resumingScreen{stubScreen{name: "datasets"}}
	r := New(home)
	r.Push(&stubScreen{name: "history"})
	r.Push(&stubScreen{name: "quiz"})

	r.Update(PopToRootMsg{})
	if r.Depth() != 1 || r.Active() != home {
		t.Fatalf("stack after pop to root = %v", names(r))
	}
	if home.resumes != 1 {
		t.Errorf("home resumed %d times, want 1", home.resumes)
	}
}

func TestPopWithoutResumer(t *testing.T) {
	r := New(&stubScreen{name: "datasets"})
	r.Push(&stubScreen{name: "history"})
	if cmd := r.Pop(); cmd != nil {
		t.Error("expected no command from a screen without Resume")
	}
}

func TestUpdateForwardsToActiveScreen(t *testing.T) {
	home := &stubScreen{name: "datasets"}
	quiz := &stubScreen{name: "quiz"}
	r := New(home)
	r.Push(quiz)

	key := tea.KeyPressMsg{Code: 'a', Text: "a"}
	r.Update(key)
	if len(quiz.got) != 1 || len(home.got) != 0 {
		t.Fatalf("quiz got %d msgs, home got %d", len(quiz.got), len(home.got))
	}
	if r.View(80, 24) != "quiz" {
		t.Errorf("View() = %q", r.View(80, 24))
	}
}
