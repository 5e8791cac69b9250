package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cuongduong73/ankiquiz/internal/question"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
)

// attemptRepo implements AttemptRepo. Each attempt takes a global sequence
// number so history can be listed in submission order.
type attemptRepo struct {
	drv *entsql.Driver
	seq *sequence
}

var attemptColumns = []string{
	"id", "sequence", "name", "started_at", "submitted_at", "duration_secs", "time_spent_secs",
	"total_score", "max_score", "correct_count", "incorrect_count", "total_questions",
	"questions", "outcomes",
}

// NewAttempt builds the stored form of a submitted attempt.
func NewAttempt(name string, st quiz.QuizState, res *quiz.Result) (*Attempt, error) {
	qs, err := json.Marshal(question.List(st.Questions))
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	outcomes := make([]AttemptOutcome, len(res.Results))
	for i, r := range res.Results {
		outcomes[i] = AttemptOutcome{
			Index:     r.Index,
			Prompt:    question.Prompt(r.Question),
			Answer:    question.FormatAnswer(r.Question, r.Answer),
			Solution:  question.Solution(r.Question),
			Correct:   r.Correct,
			Points:    r.Points,
			MaxPoints: r.Question.MaxPoints(),
		}
	}
	return &Attempt{
		ID:             res.AttemptID,
		Name:           name,
		StartedAt:      st.StartTime,
		SubmittedAt:    res.SubmittedAt,
		Duration:       st.Duration,
		TimeSpent:      res.TimeSpent,
		TotalScore:     res.TotalScore,
		MaxScore:       res.MaxScore,
		CorrectCount:   res.CorrectCount,
		IncorrectCount: res.IncorrectCount,
		TotalQuestions: res.TotalQuestions,
		Questions:      qs,
		Outcomes:       outcomes,
	}, nil
}

func (r *attemptRepo) Save(ctx context.Context, a *Attempt) error {
	existing, err := r.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	outcomes, err := json.Marshal(orEmpty(a.Outcomes))
	if err != nil {
		return fmt.Errorf("marshal outcomes: %w", err)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.drv.Dialect()).
		Insert(tableAttempts).
		Columns(attemptColumns...).
		Values(a.ID, seqNum, a.Name, a.StartedAt.UnixMilli(), a.SubmittedAt.UnixMilli(),
			int64(a.Duration/time.Second), int64(a.TimeSpent/time.Second),
			a.TotalScore, a.MaxScore, a.CorrectCount, a.IncorrectCount, a.TotalQuestions,
			string(a.Questions), string(outcomes)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}
	a.Sequence = seqNum
	return nil
}

func (r *attemptRepo) List(ctx context.Context, opts QueryOpts) ([]Attempt, error) {
	b := entsql.Dialect(r.drv.Dialect())
	sel := b.Select(attemptColumns...).From(b.Table(tableAttempts))
	if p := opts.predicate("submitted_at"); p != nil {
		sel.Where(p)
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()
	return r.query(ctx, query, args)
}

func (r *attemptRepo) Get(ctx context.Context, id string) (*Attempt, error) {
	b := entsql.Dialect(r.drv.Dialect())
	query, args := b.Select(attemptColumns...).
		From(b.Table(tableAttempts)).
		Where(entsql.EQ("id", id)).
		Query()
	out, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *attemptRepo) query(ctx context.Context, query string, args []any) ([]Attempt, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a                      Attempt
			started, submitted     int64
			durationSecs, spent    int64
			questions, outcomesRaw string
		)
		if err := rows.Scan(&a.ID, &a.Sequence, &a.Name, &started, &submitted, &durationSecs, &spent,
			&a.TotalScore, &a.MaxScore, &a.CorrectCount, &a.IncorrectCount, &a.TotalQuestions,
			&questions, &outcomesRaw); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		a.StartedAt = time.UnixMilli(started)
		a.SubmittedAt = time.UnixMilli(submitted)
		a.Duration = time.Duration(durationSecs) * time.Second
		a.TimeSpent = time.Duration(spent) * time.Second
		a.Questions = []byte(questions)
		if err := json.Unmarshal([]byte(outcomesRaw), &a.Outcomes); err != nil {
			return nil, fmt.Errorf("attempt %s: unmarshal outcomes: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// predicate builds the WHERE clause for opts against the given timestamp
// column, or nil when opts has no filters.
func (o QueryOpts) predicate(timeColumn string) *entsql.Predicate {
	var preds []*entsql.Predicate
	if o.After > 0 {
		preds = append(preds, entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		preds = append(preds, entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		preds = append(preds, entsql.GTE(timeColumn, o.From.UnixMilli()))
	}
	if !o.To.IsZero() {
		preds = append(preds, entsql.LTE(timeColumn, o.To.UnixMilli()))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}
	return entsql.And(preds...)
}
