package quiz

import (
	"time"

	"github.com/cuongduong73/ankiquiz/internal/question"
)

// Event is a notification published by the Manager. Implementations:
// QuizCreated, QuestionChanged, AnswerSaved, TimerUpdated, QuizSubmitted.
type Event interface {
	isEvent()
}

// QuizCreated is published when a quiz is created or loaded.
type QuizCreated struct {
	State QuizState
}

// QuestionChanged is published after navigation moves the cursor.
type QuestionChanged struct {
	Index int
}

// AnswerSaved is published after an answer is stored.
type AnswerSaved struct {
	Index  int
	Answer question.Answer
}

// TimerUpdated is published on every timer tick.
type TimerUpdated struct {
	Remaining time.Duration
}

// QuizSubmitted is published with the scored result.
type QuizSubmitted struct {
	Result *Result
}

func (QuizCreated) isEvent()     {}
func (QuestionChanged) isEvent() {}
func (AnswerSaved) isEvent()     {}
func (TimerUpdated) isEvent()    {}
func (QuizSubmitted) isEvent()   {}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers events synchronously to subscribers in registration order.
// It is not safe for concurrent use.
type Bus struct {
	subs   []subscriber
	nextID int
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber registered at the time of the call.
func (b *Bus) Publish(e Event) {
	subs := b.subs
	for _, s := range subs {
		s.fn(e)
	}
}

// Clear drops all subscribers.
func (b *Bus) Clear() {
	b.subs = nil
}

// On subscribes fn to events of type T only.
func On[T Event](b *Bus, fn func(T)) (unsubscribe func()) {
	return b.Subscribe(func(e Event) {
		if v, ok := e.(T); ok {
			fn(v)
		}
	})
}
