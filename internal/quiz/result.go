package quiz

import (
	"time"

	"github.com/cuongduong73/ankiquiz/internal/question"
)

// QuestionResult is the scored outcome of one question.
type QuestionResult struct {
	Index    int
	Question question.Question
	Answer   question.Answer
	Correct  bool
	Points   float64
}

// Result is a scored attempt.
type Result struct {
	AttemptID      string
	Results        []QuestionResult
	TotalScore     float64
	MaxScore       float64
	CorrectCount   int
	IncorrectCount int
	TotalQuestions int
	TimeSpent      time.Duration
	SubmittedAt    time.Time
}

// Score scores answers against questions. It does not mutate either.
func Score(questions []question.Question, answers map[int]question.Answer) *Result {
	r := &Result{TotalQuestions: len(questions)}
	for i, q := range questions {
		a := answers[i]
		out := q.Check(a)
		if out.Correct {
			r.CorrectCount++
		}
		r.TotalScore += out.Points
		r.MaxScore += q.MaxPoints()
		r.Results = append(r.Results, QuestionResult{
			Index:    i,
			Question: q,
			Answer:   a,
			Correct:  out.Correct,
			Points:   out.Points,
		})
	}
	r.IncorrectCount = r.TotalQuestions - r.CorrectCount
	return r
}

// Filter selects which results a review shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterCorrect
	FilterIncorrect
)

func (f Filter) String() string {
	switch f {
	case FilterCorrect:
		return "correct"
	case FilterIncorrect:
		return "incorrect"
	}
	return "all"
}

// Next cycles all → correct → incorrect → all.
func (f Filter) Next() Filter {
	return (f + 1) % 3
}

// Filtered returns the results matching f.
func (r *Result) Filtered(f Filter) []QuestionResult {
	if f == FilterAll {
		return r.Results
	}
	var out []QuestionResult
	for _, qr := range r.Results {
		if qr.Correct == (f == FilterCorrect) {
			out = append(out, qr)
		}
	}
	return out
}

// Percent returns the score as a percentage of MaxScore.
func (r *Result) Percent() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return r.TotalScore / r.MaxScore * 100
}
