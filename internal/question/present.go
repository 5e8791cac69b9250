package question

import (
	"slices"

	"github.com/cuongduong73/ankiquiz/internal/dataset"
	"github.com/cuongduong73/ankiquiz/internal/shuffle"
)

// Present returns a copy of q with its display order randomized.
// Choice-bearing questions get their choices permuted and Answer remapped
// to the new position of the correct choice; Definition cards follow the
// same permutation. True/false questions only reorder statements. The
// input is never mutated.
func Present(sh *shuffle.Shuffler, q Question) Question {
	out := q.clone()
	switch v := out.(type) {
	case *MultipleChoice:
		v.Choices, v.Answer = permuteChoices(sh, v.Choices, v.Answer, nil)
	case *Definition:
		var perm []int
		v.Choices, v.Answer = permuteChoices(sh, v.Choices, v.Answer, &perm)
		if len(perm) == len(v.Cards) {
			cards := make([]dataset.Card, len(perm))
			for i, src := range perm {
				cards[i] = v.Cards[src]
			}
			v.Cards = cards
		}
	case *TrueFalse:
		v.Statements = shuffle.Shuffle(sh, v.Statements)
	case *TrueFalseStatement:
		v.Statements = shuffle.Shuffle(sh, v.Statements)
	}
	return out
}

// PresentAll applies Present to every question.
func PresentAll(sh *shuffle.Shuffler, qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = Present(sh, q)
	}
	return out
}

// permuteChoices reorders choices and returns the correct answer's new
// index. When permOut is non-nil it receives the permutation used, where
// permOut[i] is the original index now shown at position i.
func permuteChoices(sh *shuffle.Shuffler, choices []string, answer int, permOut *[]int) ([]string, int) {
	if len(choices) == 0 {
		return choices, answer
	}
	perm := sh.Perm(len(choices))
	out := make([]string, len(perm))
	for i, src := range perm {
		out[i] = choices[src]
	}
	if permOut != nil {
		*permOut = perm
	}
	return out, slices.Index(perm, answer)
}
