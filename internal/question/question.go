// Package question implements the five question variants: how each is
// generated from cards and how each scores a submitted answer.
package question

import (
	"strings"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
)

// Question is a generated quiz question. The set of implementations is
// closed: *TrueFalseStatement, *TrueFalse, *MultipleChoice, *ShortAnswer
// and *Definition.
type Question interface {
	// Type returns the dataset type the question was generated from.
	Type() dataset.Type

	// MaxPoints returns the points awarded for a fully correct answer.
	MaxPoints() float64

	// Check scores answer without mutating the question. A nil answer
	// means the question was left unanswered.
	Check(answer Answer) Outcome

	clone() Question
}

// Outcome is the result of checking one answer.
type Outcome struct {
	Correct bool
	Points  float64
}

// Answer is a learner's answer. Implementations: TFAnswer, ChoiceAnswer,
// TextAnswer.
type Answer interface {
	isAnswer()
}

// TFAnswer maps statement index to the learner's true/false verdict.
// Missing indices are unanswered.
type TFAnswer map[int]bool

// ChoiceAnswer is the index of the selected choice.
type ChoiceAnswer int

// TextAnswer is free text.
type TextAnswer string

func (TFAnswer) isAnswer()     {}
func (ChoiceAnswer) isAnswer() {}
func (TextAnswer) isAnswer()   {}

// With returns a copy of a with statement i set to v.
func (a TFAnswer) With(i int, v bool) TFAnswer {
	out := make(TFAnswer, len(a)+1)
	for k, val := range a {
		out[k] = val
	}
	out[i] = v
	return out
}

// Statement is one true/false claim.
type Statement struct {
	Text   string `json:"question"`
	Answer Truth  `json:"answer"`
	NoteID int64  `json:"id,omitempty"`
}

// TrueFalseStatement groups four independent statements drawn from
// different cards.
type TrueFalseStatement struct {
	Statements []Statement
	Points     float64
}

// TrueFalse asks for a verdict on each choice of a single card.
type TrueFalse struct {
	Question   string
	Statements []Statement
	Extra      string
	NoteID     int64
	Points     float64
}

// MultipleChoice has exactly one correct choice.
type MultipleChoice struct {
	Question string
	Choices  []string
	Answer   int
	Extra    string
	NoteID   int64
	Points   float64
}

// ShortAnswer is checked by case-insensitive text comparison.
type ShortAnswer struct {
	Question string
	Answer   string
	Extra    string
	NoteID   int64
	Points   float64
}

// Direction selects which side of a Definition card is asked.
type Direction string

const (
	Forward Direction = "forward"
	Reverse Direction = "reverse"
)

// Definition is a four-way matching question between keywords and
// definitions. Cards is parallel to Choices.
type Definition struct {
	Question  string
	Choices   []string
	Answer    int
	Cards     []dataset.Card
	Direction Direction
	Points    float64
}

func (q *TrueFalseStatement) Type() dataset.Type { return dataset.TypeTrueFalseStatement }
func (q *TrueFalse) Type() dataset.Type          { return dataset.TypeTrueFalse }
func (q *MultipleChoice) Type() dataset.Type     { return dataset.TypeMultipleChoice }
func (q *ShortAnswer) Type() dataset.Type        { return dataset.TypeShortAnswer }
func (q *Definition) Type() dataset.Type         { return dataset.TypeDefinition }

func (q *TrueFalseStatement) MaxPoints() float64 { return q.Points }
func (q *TrueFalse) MaxPoints() float64          { return q.Points }
func (q *MultipleChoice) MaxPoints() float64     { return q.Points }
func (q *ShortAnswer) MaxPoints() float64        { return q.Points }
func (q *Definition) MaxPoints() float64         { return q.Points }

func (q *TrueFalseStatement) Check(a Answer) Outcome {
	return scoreStatements(q.Statements, a, q.Points)
}

func (q *TrueFalse) Check(a Answer) Outcome {
	return scoreStatements(q.Statements, a, q.Points)
}

func (q *MultipleChoice) Check(a Answer) Outcome {
	return scoreChoice(q.Answer, a, q.Points)
}

func (q *Definition) Check(a Answer) Outcome {
	return scoreChoice(q.Answer, a, q.Points)
}

func (q *ShortAnswer) Check(a Answer) Outcome {
	text, _ := a.(TextAnswer)
	given := strings.TrimSpace(string(text))
	if given == "" {
		return Outcome{}
	}
	if strings.EqualFold(given, strings.TrimSpace(q.Answer)) {
		return Outcome{Correct: true, Points: q.Points}
	}
	return Outcome{}
}

func scoreChoice(correct int, a Answer, points float64) Outcome {
	choice, ok := a.(ChoiceAnswer)
	if ok && int(choice) == correct {
		return Outcome{Correct: true, Points: points}
	}
	return Outcome{}
}

// Partial credit for true/false questions by number of wrong statements.
var statementTiers = []float64{1, 0.5, 0.25, 0.1}

// scoreStatements awards tiered partial credit: all N right earns full
// points, N-1 half, N-2 a quarter, N-3 a tenth, provided at least one
// statement is right. Unanswered statements count as wrong.
func scoreStatements(stmts []Statement, a Answer, points float64) Outcome {
	verdicts, _ := a.(TFAnswer)
	n := len(stmts)
	right := 0
	for i, s := range stmts {
		if v, ok := verdicts[i]; ok && v == bool(s.Answer) {
			right++
		}
	}

	if right == n {
		return Outcome{Correct: true, Points: points}
	}
	wrong := n - right
	if right > 0 && wrong < len(statementTiers) {
		return Outcome{Points: points * statementTiers[wrong]}
	}
	return Outcome{}
}

func (q *TrueFalseStatement) clone() Question {
	c := *q
	c.Statements = append([]Statement(nil), q.Statements...)
	return &c
}

func (q *TrueFalse) clone() Question {
	c := *q
	c.Statements = append([]Statement(nil), q.Statements...)
	return &c
}

func (q *MultipleChoice) clone() Question {
	c := *q
	c.Choices = append([]string(nil), q.Choices...)
	return &c
}

func (q *ShortAnswer) clone() Question {
	c := *q
	return &c
}

func (q *Definition) clone() Question {
	c := *q
	c.Choices = append([]string(nil), q.Choices...)
	c.Cards = append([]dataset.Card(nil), q.Cards...)
	return &c
}

// Clone returns a deep copy of q.
func Clone(q Question) Question {
	return q.clone()
}
