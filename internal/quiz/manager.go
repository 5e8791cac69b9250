package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
	"github.com/google/uuid"
)

var (
	ErrNoQuiz        = errors.New("no quiz loaded")
	ErrQuizSubmitted = errors.New("quiz already submitted")
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Manager.
type Option func(*Manager)

// WithShuffler sets the randomness used for generation and presentation.
func WithShuffler(sh *shuffle.Shuffler) Option {
	return func(m *Manager) { m.sh = sh }
}

// WithClock sets the clock used for start and submit times.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithAttemptIDs sets the attempt ID generator.
func WithAttemptIDs(next func() string) Option {
	return func(m *Manager) { m.newID = next }
}

// Manager owns the current quiz attempt. It is driven by a single caller
// and is not safe for concurrent use.
type Manager struct {
	sh      *shuffle.Shuffler
	clock   Clock
	newID   func() string
	factory *question.Factory
	bus     Bus

	state       *QuizState
	submittedAt time.Time
}

// NewManager returns an idle Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{clock: systemClock{}, newID: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}
	if m.sh == nil {
		m.sh = shuffle.NewRandom()
	}
	m.factory = question.NewFactory(m.sh)
	return m
}

// Events returns the bus the Manager publishes on.
func (m *Manager) Events() *Bus {
	return &m.bus
}

// CreateQuiz validates the configuration, generates questions from the
// selected datasets, randomizes their presentation and resets progress.
// On error the current quiz is left untouched.
func (m *Manager) CreateQuiz(sets []dataset.Dataset, selectedIDs []string, allocs []TypeAllocation, durationMinutes int) (*QuizState, error) {
	if err := ValidateConfig(selectedIDs, allocs, durationMinutes); err != nil {
		return nil, err
	}

	selected := dataset.Select(sets, selectedIDs)
	if len(selected) == 0 {
		return nil, &ConfigError{Err: ErrNoDatasets, Detail: "none of the selected datasets exist"}
	}
	if err := checkTypesSelected(selected, allocs); err != nil {
		return nil, err
	}

	qs, err := m.factory.Create(selected, TypeConfigs(allocs))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	if len(qs) == 0 {
		return nil, &ConfigError{Err: ErrNoQuestions}
	}

	return m.install(question.PresentAll(m.sh, qs), time.Duration(durationMinutes)*time.Minute), nil
}

// LoadQuiz installs a ready-made question set, such as one read from a
// quiz document. The questions keep the order they were saved in.
func (m *Manager) LoadQuiz(qs []question.Question, duration time.Duration) (*QuizState, error) {
	if len(qs) == 0 {
		return nil, &ConfigError{Err: ErrNoQuestions}
	}
	if duration <= 0 {
		return nil, &ConfigError{Err: ErrInvalidDuration, Detail: duration.String()}
	}
	own := make([]question.Question, len(qs))
	for i, q := range qs {
		own[i] = question.Clone(q)
	}
	return m.install(own, duration), nil
}

func (m *Manager) install(qs []question.Question, duration time.Duration) *QuizState {
	m.state = &QuizState{
		Questions: qs,
		Duration:  duration,
	}
	m.reset()
	m.state.Phase = PhaseCreated

	snap := m.state.copy()
	m.bus.Publish(QuizCreated{State: snap})
	return &snap
}

func (m *Manager) reset() {
	m.state.AttemptID = m.newID()
	m.state.CurrentIndex = 0
	m.state.Answers = make(map[int]question.Answer)
	m.state.TimeRemaining = m.state.Duration
	m.state.StartTime = m.clock.Now()
	m.submittedAt = time.Time{}
}

// Start marks the attempt as in progress. The host calls it when the
// timer starts.
func (m *Manager) Start() error {
	if m.state == nil {
		return ErrNoQuiz
	}
	switch m.state.Phase {
	case PhaseSubmitted:
		return ErrQuizSubmitted
	case PhaseCreated:
		m.state.Phase = PhaseInProgress
	}
	return nil
}

// Phase returns the lifecycle phase.
func (m *Manager) Phase() Phase {
	if m.state == nil {
		return PhaseIdle
	}
	return m.state.Phase
}

// State returns a copy of the current attempt, or nil when idle.
func (m *Manager) State() *QuizState {
	if m.state == nil {
		return nil
	}
	s := m.state.copy()
	return &s
}

// Current returns the question under the cursor.
func (m *Manager) Current() (question.Question, int) {
	if m.state == nil || len(m.state.Questions) == 0 {
		return nil, -1
	}
	return m.state.Questions[m.state.CurrentIndex], m.state.CurrentIndex
}

// GoTo moves to question i. Out-of-range indices are ignored.
func (m *Manager) GoTo(i int) {
	if m.state == nil || i < 0 || i >= len(m.state.Questions) {
		return
	}
	m.state.CurrentIndex = i
	m.bus.Publish(QuestionChanged{Index: i})
}

// Next moves forward one question unless already at the last.
func (m *Manager) Next() {
	if m.state == nil || m.state.CurrentIndex >= len(m.state.Questions)-1 {
		return
	}
	m.GoTo(m.state.CurrentIndex + 1)
}

// Prev moves back one question unless already at the first.
func (m *Manager) Prev() {
	if m.state == nil || m.state.CurrentIndex <= 0 {
		return
	}
	m.GoTo(m.state.CurrentIndex - 1)
}

// SaveAnswer stores a as the answer to the current question, replacing
// any earlier answer.
func (m *Manager) SaveAnswer(a question.Answer) error {
	if err := m.writable(); err != nil {
		return err
	}
	idx := m.state.CurrentIndex
	m.state.Answers[idx] = a
	m.bus.Publish(AnswerSaved{Index: idx, Answer: a})
	return nil
}

// SaveStatement records a verdict for one statement of the current
// true/false question, keeping the other verdicts.
func (m *Manager) SaveStatement(stmt int, value bool) error {
	if err := m.writable(); err != nil {
		return err
	}
	prev, _ := m.state.Answers[m.state.CurrentIndex].(question.TFAnswer)
	return m.SaveAnswer(prev.With(stmt, value))
}

func (m *Manager) writable() error {
	if m.state == nil {
		return ErrNoQuiz
	}
	if m.state.Phase == PhaseSubmitted {
		return ErrQuizSubmitted
	}
	return nil
}

// Answer returns the stored answer for question i, or nil.
func (m *Manager) Answer(i int) question.Answer {
	if m.state == nil {
		return nil
	}
	return m.state.Answers[i]
}

// UpdateTimer records the remaining time reported by the timer.
func (m *Manager) UpdateTimer(remaining time.Duration) {
	if m.state == nil {
		return
	}
	m.state.TimeRemaining = remaining
	m.bus.Publish(TimerUpdated{Remaining: remaining})
}

// Submit scores the stored answers and freezes them. Submitting again
// returns an identical result.
func (m *Manager) Submit() (*Result, error) {
	if m.state == nil {
		return nil, ErrNoQuiz
	}
	if m.state.Phase != PhaseSubmitted {
		m.submittedAt = m.clock.Now()
		m.state.Phase = PhaseSubmitted
	}

	r := Score(m.state.Questions, m.state.Answers)
	r.AttemptID = m.state.AttemptID
	r.SubmittedAt = m.submittedAt
	r.TimeSpent = m.submittedAt.Sub(m.state.StartTime).Truncate(time.Second)

	m.bus.Publish(QuizSubmitted{Result: r})
	return r, nil
}

// Retry reshuffles the presentation of the same questions and starts a
// fresh attempt.
func (m *Manager) Retry() (*QuizState, error) {
	if m.state == nil {
		return nil, ErrNoQuiz
	}
	m.state.Questions = question.PresentAll(m.sh, m.state.Questions)
	m.reset()
	m.state.Phase = PhaseInProgress

	snap := m.state.copy()
	return &snap, nil
}

// Reset discards the current quiz.
func (m *Manager) Reset() {
	m.state = nil
	m.submittedAt = time.Time{}
}

// Close drops every subscriber.
func (m *Manager) Close() {
	m.bus.Clear()
}
