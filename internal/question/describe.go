package question

import (
	"strings"
)

// StatementsPrompt is shown above statement groups that carry no question
// text of their own.
const StatementsPrompt = "Are the following statements true or false?"

// Prompt returns the text shown above q's options.
func Prompt(q Question) string {
	switch v := q.(type) {
	case *TrueFalseStatement:
		return StatementsPrompt
	case *TrueFalse:
		return v.Question
	case *MultipleChoice:
		return v.Question
	case *ShortAnswer:
		return v.Question
	case *Definition:
		return v.Question
	}
	return ""
}

// Extra returns the explanation attached to q's source card, if any.
func Extra(q Question) string {
	switch v := q.(type) {
	case *TrueFalse:
		return v.Extra
	case *MultipleChoice:
		return v.Extra
	case *ShortAnswer:
		return v.Extra
	}
	return ""
}

// NoteIDs returns the source note IDs behind q, in display order.
func NoteIDs(q Question) []int64 {
	var ids []int64
	add := func(id int64) {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	switch v := q.(type) {
	case *TrueFalseStatement:
		for _, s := range v.Statements {
			add(s.NoteID)
		}
	case *TrueFalse:
		add(v.NoteID)
	case *MultipleChoice:
		add(v.NoteID)
	case *ShortAnswer:
		add(v.NoteID)
	case *Definition:
		if len(v.Cards) > v.Answer && v.Answer >= 0 {
			add(v.Cards[v.Answer].ID)
		}
	}
	return ids
}

// Solution renders the correct answer of q as plain text.
func Solution(q Question) string {
	switch v := q.(type) {
	case *TrueFalseStatement:
		return verdicts(v.Statements)
	case *TrueFalse:
		return verdicts(v.Statements)
	case *MultipleChoice:
		return choiceText(v.Choices, v.Answer)
	case *Definition:
		return choiceText(v.Choices, v.Answer)
	case *ShortAnswer:
		return v.Answer
	}
	return ""
}

// FormatAnswer renders a learner's answer to q. Unanswered parts show "-".
func FormatAnswer(q Question, a Answer) string {
	switch v := q.(type) {
	case *TrueFalseStatement:
		return answeredVerdicts(len(v.Statements), a)
	case *TrueFalse:
		return answeredVerdicts(len(v.Statements), a)
	case *MultipleChoice:
		if c, ok := a.(ChoiceAnswer); ok {
			return choiceText(v.Choices, int(c))
		}
	case *Definition:
		if c, ok := a.(ChoiceAnswer); ok {
			return choiceText(v.Choices, int(c))
		}
	case *ShortAnswer:
		if t, ok := a.(TextAnswer); ok && strings.TrimSpace(string(t)) != "" {
			return string(t)
		}
	}
	return "-"
}

func choiceText(choices []string, idx int) string {
	if idx < 0 || idx >= len(choices) {
		return "-"
	}
	return Letter(idx) + ". " + choices[idx]
}

func verdicts(stmts []Statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = verdictLabel(bool(s.Answer))
	}
	return strings.Join(parts, " ")
}

func answeredVerdicts(n int, a Answer) string {
	tf, _ := a.(TFAnswer)
	parts := make([]string, n)
	for i := range parts {
		if v, ok := tf[i]; ok {
			parts[i] = verdictLabel(v)
		} else {
			parts[i] = "-"
		}
	}
	return strings.Join(parts, " ")
}

func verdictLabel(v bool) string {
	if v {
		return "T"
	}
	return "F"
}

// Answered reports whether a carries any input.
func Answered(a Answer) bool {
	switch v := a.(type) {
	case nil:
		return false
	case TFAnswer:
		return len(v) > 0
	case TextAnswer:
		return strings.TrimSpace(string(v)) != ""
	}
	return true
}
