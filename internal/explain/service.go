// Package explain asks an LLM why the correct answer to a missed quiz
// question is right.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cuongduong73/ankiquiz/internal/llm"
	"github.com/cuongduong73/ankiquiz/internal/quiz"
)

// Explanation is the tutor's take on one question.
type Explanation struct {
	// Index is the question's position in the quiz.
	Index       int
	Summary     string
	Explanation string
	Mistake     string
	Mnemonic    string
	GeneratedAt time.Time
}

// Service generates explanations through an llm.Provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Service{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Summary     string `json:"summary"`
	Explanation string `json:"explanation"`
	Mistake     string `json:"mistake"`
	Mnemonic    string `json:"mnemonic"`
}

// Explain generates an explanation for a single scored question.
func (s *Service) Explain(ctx context.Context, qr quiz.QuestionResult) (*Explanation, error) {
	if qr.Question == nil {
		return nil, errors.New("explain: no question")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)

	req := llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(qr.Question, qr.Answer, s.cfg.Language)),
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explain question %d: %w", qr.Index+1, err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}

	return &Explanation{
		Index:       qr.Index,
		Summary:     out.Summary,
		Explanation: out.Explanation,
		Mistake:     out.Mistake,
		Mnemonic:    out.Mnemonic,
		GeneratedAt: time.Now(),
	}, nil
}

// ExplainAll explains every incorrect question in res, at most
// Config.Concurrency at a time. Explanations come back in quiz order.
// Questions that failed are left out and their errors joined.
func (s *Service) ExplainAll(ctx context.Context, res *quiz.Result) ([]Explanation, error) {
	ctx = llm.WithAttempt(ctx, res.AttemptID)
	missed := res.Filtered(quiz.FilterIncorrect)
	got := make([]*Explanation, len(missed))
	errs := make([]error, len(missed))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, qr := range missed {
		g.Go(func() error {
			got[i], errs[i] = s.Explain(ctx, qr)
			return nil
		})
	}
	g.Wait()

	var out []Explanation
	for _, e := range got {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out, errors.Join(errs...)
}
