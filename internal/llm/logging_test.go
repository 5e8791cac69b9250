package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cuongduong73/ankiquiz/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"explanation":"x"}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &Error{Kind: KindInvalidResponse, Content: json.RawMessage(`{"bad"`), Err: errors.New("not JSON")}},
	)
	p := WithLogging(mock, ProviderMock, repo)
	ctx := WithAttempt(WithPurpose(context.Background(), PurposeExplain), "att-9")

	if _, err := p.Generate(ctx, Request{System: "tutor", Messages: UserMessage("why?")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{Messages: UserMessage("again")}); err == nil {
		t.Fatal("expected error")
	}

	events, err := repo.QueryLLMRequests(context.Background(), store.QueryOpts{AttemptID: "att-9"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || !strings.Contains(failed.ErrorMessage, "not JSON") || failed.ResponseBody != `{"bad"` {
		t.Fatalf("failed event = %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.Purpose != PurposeExplain || ok.Provider != ProviderMock || ok.Model != MockModel {
		t.Fatalf("success event = %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]\ntutor") || ok.ResponseBody != `{"explanation":"x"}` {
		t.Fatalf("bodies = %q / %q", ok.RequestBody, ok.ResponseBody)
	}
}

func TestLogging_SurvivesCanceledContext(t *testing.T) {
	repo := openEventRepo(t)
	p := WithLogging(NewMockProvider(okReply), ProviderMock, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := repo.QueryLLMRequests(context.Background(), store.QueryOpts{})
	if err != nil || len(events) != 1 {
		t.Fatalf("events = %d, err = %v", len(events), err)
	}
}
