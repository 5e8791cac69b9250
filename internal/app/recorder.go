package app

import (
	"context"
	"sync"
	"time"

	"github.com/cuongduong73/ankiquiz/internal/quiz"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

const saveTimeout = 5 * time.Second

// recorder saves every submitted attempt published by a Manager.
type recorder struct {
	manager *quiz.Manager
	repo    store.AttemptRepo
	unsub   func()
	name    string

	mu   sync.Mutex
	errs []error
}

// newRecorder subscribes to m. A nil repo records nothing. An empty name
// labels attempts by their question types.
func newRecorder(m *quiz.Manager, repo store.AttemptRepo, name string) *recorder {
	r := &recorder{manager: m, repo: repo, name: name, unsub: func() {}}
	if repo == nil {
		return r
	}
	r.unsub = quiz.On(m.Events(), r.onSubmitted)
	return r
}

func (r *recorder) onSubmitted(e quiz.QuizSubmitted) {
	st := r.manager.State()
	if st == nil {
		return
	}
	name := r.name
	if name == "" {
		name = attemptName(st)
	}
	a, err := store.NewAttempt(name, *st, e.Result)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err = r.repo.Save(ctx, a)
		cancel()
	}
	if err != nil {
		r.mu.Lock()
		r.errs = append(r.errs, err)
		r.mu.Unlock()
	}
}

// Errors returns the save failures seen so far.
func (r *recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

// Close stops recording.
func (r *recorder) Close() {
	r.unsub()
}

// attemptName labels an attempt by the types it covered.
func attemptName(st *quiz.QuizState) string {
	seen := make(map[string]bool)
	var name string
	for _, q := range st.Questions {
		t := q.Type().Short()
		if seen[t] {
			continue
		}
		seen[t] = true
		if name != "" {
			name += "+"
		}
		name += t
	}
	return name
}
