package question

import (
	"strings"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
)

// StatementsPerQuestion is the group size for TrueFalseStatement questions.
const StatementsPerQuestion = 4

// DefinitionChoices is the number of options in a Definition question.
const DefinitionChoices = 4

// GenerateTrueFalseStatements partitions shuffled cards into groups of four
// and emits one question per full group, up to count. A trailing partial
// group is dropped.
func GenerateTrueFalseStatements(sh *shuffle.Shuffler, cards []dataset.Card, count int, points float64) []Question {
	shuffled := shuffle.Shuffle(sh, cards)
	var out []Question
	for i := 0; i < count; i++ {
		start := i * StatementsPerQuestion
		end := start + StatementsPerQuestion
		if end > len(shuffled) {
			break
		}
		stmts := make([]Statement, 0, StatementsPerQuestion)
		for _, c := range shuffled[start:end] {
			stmts = append(stmts, Statement{Text: c.Question, Answer: ParseTruth(c.Answer), NoteID: c.ID})
		}
		out = append(out, &TrueFalseStatement{Statements: stmts, Points: points})
	}
	return out
}

// GenerateMultipleChoice emits one question per card for the first count
// shuffled cards. Cards without choices are skipped.
func GenerateMultipleChoice(sh *shuffle.Shuffler, cards []dataset.Card, count int, points float64) []Question {
	var out []Question
	for _, c := range firstN(shuffle.Shuffle(sh, cards), count) {
		if len(c.Choices) == 0 {
			continue
		}
		out = append(out, &MultipleChoice{
			Question: c.Question,
			Choices:  append([]string(nil), c.Choices...),
			Answer:   AnswerIndex(c.Answer, len(c.Choices)),
			Extra:    c.Extra,
			NoteID:   c.ID,
			Points:   points,
		})
	}
	return out
}

// GenerateTrueFalse turns each choice of a card into a statement that is
// true when its label appears in the card's answer.
func GenerateTrueFalse(sh *shuffle.Shuffler, cards []dataset.Card, count int, points float64) []Question {
	var out []Question
	for _, c := range firstN(shuffle.Shuffle(sh, cards), count) {
		correct := make(map[int]bool)
		for _, idx := range ParseCorrectAnswers(c.Answer, len(c.Choices)) {
			correct[idx] = true
		}
		stmts := make([]Statement, len(c.Choices))
		for i, choice := range c.Choices {
			stmts[i] = Statement{Text: choice, Answer: Truth(correct[i])}
		}
		out = append(out, &TrueFalse{
			Question:   c.Question,
			Statements: stmts,
			Extra:      c.Extra,
			NoteID:     c.ID,
			Points:     points,
		})
	}
	return out
}

// GenerateShortAnswer passes the first count shuffled cards through.
func GenerateShortAnswer(sh *shuffle.Shuffler, cards []dataset.Card, count int, points float64) []Question {
	var out []Question
	for _, c := range firstN(shuffle.Shuffle(sh, cards), count) {
		out = append(out, &ShortAnswer{
			Question: c.Question,
			Answer:   c.Answer,
			Extra:    c.Extra,
			NoteID:   c.ID,
			Points:   points,
		})
	}
	return out
}

// GenerateDefinitions builds four-way matching questions from a subset of
// count*4 shuffled cards. Only the asked card of each question is retired;
// distractors may repeat. Generation stops once fewer than four unused
// cards remain in the subset, so fewer than count questions may result.
func GenerateDefinitions(sh *shuffle.Shuffler, cards []dataset.Card, count int, points float64, meta *dataset.Metadata) []Question {
	if !meta.HasTemplates() {
		return nil
	}
	forward := meta.ForwardQuestionTemplate
	reverse := meta.ReverseQuestionTemplate

	subset := firstN(shuffle.Shuffle(sh, cards), count*DefinitionChoices)
	used := make(map[int]bool)
	var out []Question

	for i := 0; i < count; i++ {
		var available []int
		for idx := range subset {
			if !used[idx] {
				available = append(available, idx)
			}
		}
		if len(available) < DefinitionChoices {
			break
		}

		picked := shuffle.Shuffle(sh, available)[:DefinitionChoices]
		used[picked[0]] = true

		four := make([]dataset.Card, DefinitionChoices)
		for j, idx := range picked {
			four[j] = subset[idx]
		}
		asked := four[0]

		q := &Definition{Answer: 0, Cards: four, Points: points}
		if forward != "" && (reverse == "" || sh.Float64() < 0.5) {
			q.Direction = Forward
			q.Question = strings.Replace(forward, "{keyword}", "<b>"+asked.Question+"</b>", 1)
			for _, c := range four {
				q.Choices = append(q.Choices, c.Answer)
			}
		} else {
			q.Direction = Reverse
			q.Question = strings.Replace(reverse, "{definition}", "<b>"+asked.Answer+"</b>", 1)
			for _, c := range four {
				q.Choices = append(q.Choices, c.Question)
			}
		}
		out = append(out, q)
	}
	return out
}

func firstN[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
