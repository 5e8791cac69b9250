// Package quiz runs a quiz attempt: creation from datasets, navigation,
// answer collection, timing, and scoring.
package quiz

import (
	"maps"
	"slices"
	"time"

	"github.com/cuongduong73/ankiquiz/internal/question"
)

// Phase is the lifecycle position of the current quiz.
type Phase int

const (
	PhaseIdle       Phase = iota // No quiz loaded
	PhaseCreated                 // Questions generated, timer not started
	PhaseInProgress              // Timer running, answers accepted
	PhaseSubmitted               // Scored; answers are frozen until retry
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCreated:
		return "created"
	case PhaseInProgress:
		return "in progress"
	case PhaseSubmitted:
		return "submitted"
	}
	return "unknown"
}

// QuizState is a point-in-time view of the current attempt.
type QuizState struct {
	// AttemptID identifies this attempt; retries get a new one.
	AttemptID string

	// Questions in presentation order.
	Questions []question.Question

	// Duration is the time allowed for the attempt.
	Duration time.Duration

	// StartTime is when the attempt was created or last retried.
	StartTime time.Time

	// CurrentIndex is the question being shown.
	CurrentIndex int

	// Answers maps question index to the learner's answer.
	Answers map[int]question.Answer

	// TimeRemaining is the last value reported by the timer.
	TimeRemaining time.Duration

	// Phase is the lifecycle phase.
	Phase Phase
}

// MaxScore sums the points of every question.
func (s *QuizState) MaxScore() float64 {
	var total float64
	for _, q := range s.Questions {
		total += q.MaxPoints()
	}
	return total
}

// AnsweredCount returns how many questions carry an answer.
func (s *QuizState) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if question.Answered(a) {
			n++
		}
	}
	return n
}

func (s *QuizState) copy() QuizState {
	c := *s
	c.Questions = slices.Clone(s.Questions)
	c.Answers = maps.Clone(s.Answers)
	return c
}
