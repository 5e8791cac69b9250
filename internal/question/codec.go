package question

import (
	"encoding/json"
	"fmt"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
)

// Wire type tags. Both true/false variants share one tag; a statement
// group is recognized by its missing question text.
const (
	wireTrueFalse      = "True/False"
	wireMultipleChoice = "Multiple Choices"
	wireShortAnswer    = "Short Answer"
	wireDefinition     = "Definition"
)

type wireQuestion struct {
	Type         string          `json:"type"`
	Question     string          `json:"question,omitempty"`
	Statements   []Statement     `json:"statements,omitempty"`
	Choices      []string        `json:"choices,omitempty"`
	Answer       json.RawMessage `json:"answer,omitempty"`
	Cards        []dataset.Card  `json:"cards,omitempty"`
	QuestionType Direction       `json:"questionType,omitempty"`
	Extra        string          `json:"extra,omitempty"`
	ID           int64           `json:"id,omitempty"`
	Points       float64         `json:"points"`
}

// List is an ordered question set with a JSON encoding.
type List []Question

func (l List) MarshalJSON() ([]byte, error) {
	out := make([]wireQuestion, len(l))
	for i, q := range l {
		w, err := toWire(q)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out[i] = w
	}
	return json.Marshal(out)
}

func (l *List) UnmarshalJSON(b []byte) error {
	var raw []wireQuestion
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	qs := make(List, len(raw))
	for i, w := range raw {
		q, err := fromWire(w)
		if err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
		qs[i] = q
	}
	*l = qs
	return nil
}

func toWire(q Question) (wireQuestion, error) {
	switch v := q.(type) {
	case *TrueFalseStatement:
		return wireQuestion{Type: wireTrueFalse, Statements: v.Statements, Points: v.Points}, nil
	case *TrueFalse:
		return wireQuestion{Type: wireTrueFalse, Question: v.Question, Statements: v.Statements,
			Extra: v.Extra, ID: v.NoteID, Points: v.Points}, nil
	case *MultipleChoice:
		ans, _ := json.Marshal(v.Answer)
		return wireQuestion{Type: wireMultipleChoice, Question: v.Question, Choices: v.Choices,
			Answer: ans, Extra: v.Extra, ID: v.NoteID, Points: v.Points}, nil
	case *ShortAnswer:
		ans, _ := json.Marshal(v.Answer)
		return wireQuestion{Type: wireShortAnswer, Question: v.Question, Answer: ans,
			Extra: v.Extra, ID: v.NoteID, Points: v.Points}, nil
	case *Definition:
		ans, _ := json.Marshal(v.Answer)
		return wireQuestion{Type: wireDefinition, Question: v.Question, Choices: v.Choices,
			Answer: ans, Cards: v.Cards, QuestionType: v.Direction, Points: v.Points}, nil
	default:
		return wireQuestion{}, fmt.Errorf("unsupported question %T", q)
	}
}

func fromWire(w wireQuestion) (Question, error) {
	switch w.Type {
	case wireTrueFalse:
		if len(w.Statements) == 0 {
			return nil, fmt.Errorf("true/false question has no statements")
		}
		if w.Question == "" {
			return &TrueFalseStatement{Statements: w.Statements, Points: w.Points}, nil
		}
		return &TrueFalse{Question: w.Question, Statements: w.Statements, Extra: w.Extra,
			NoteID: w.ID, Points: w.Points}, nil
	case wireMultipleChoice:
		idx, err := choiceIndex(w.Answer, len(w.Choices))
		if err != nil {
			return nil, err
		}
		return &MultipleChoice{Question: w.Question, Choices: w.Choices, Answer: idx,
			Extra: w.Extra, NoteID: w.ID, Points: w.Points}, nil
	case wireShortAnswer:
		var ans string
		if err := json.Unmarshal(w.Answer, &ans); err != nil {
			return nil, fmt.Errorf("short answer: answer must be a string")
		}
		return &ShortAnswer{Question: w.Question, Answer: ans, Extra: w.Extra,
			NoteID: w.ID, Points: w.Points}, nil
	case wireDefinition:
		idx, err := choiceIndex(w.Answer, len(w.Choices))
		if err != nil {
			return nil, err
		}
		dir := w.QuestionType
		if dir == "" {
			dir = Forward
		}
		return &Definition{Question: w.Question, Choices: w.Choices, Answer: idx,
			Cards: w.Cards, Direction: dir, Points: w.Points}, nil
	default:
		return nil, &UnknownTypeError{Type: dataset.Type(w.Type)}
	}
}

// choiceIndex accepts either a numeric index or a letter/number label.
func choiceIndex(raw json.RawMessage, choices int) (int, error) {
	if choices == 0 {
		return 0, fmt.Errorf("question has no choices")
	}
	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil {
		if idx < 0 || idx >= choices {
			return 0, fmt.Errorf("answer index %d out of range [0,%d)", idx, choices)
		}
		return idx, nil
	}
	var label string
	if err := json.Unmarshal(raw, &label); err != nil {
		return 0, fmt.Errorf("answer must be an index or a label")
	}
	return AnswerIndex(label, choices), nil
}
