package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond}
}

var okReply = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func failWith(k Kind) MockResponse {
	return MockResponse{Err: &Error{Kind: k, Err: errors.New(k.String())}}
}

func TestRetry_Policy(t *testing.T) {
	tests := []struct {
		name      string
		replies   []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{"first try", []MockResponse{okReply}, 1, false},
		{"outage then success", []MockResponse{failWith(KindUnavailable), okReply}, 2, false},
		{"rate limited then success", []MockResponse{failWith(KindRateLimited), okReply}, 2, false},
		{"plain error is retried", []MockResponse{{Err: errors.New("eof")}, okReply}, 2, false},
		{"outage every time", []MockResponse{failWith(KindUnavailable), failWith(KindUnavailable), failWith(KindUnavailable)}, 3, true},
		{"rejected fails at once", []MockResponse{failWith(KindRejected), okReply}, 1, true},
		{"truncated fails at once", []MockResponse{failWith(KindTruncated), okReply}, 1, true},
		{"invalid retried once", []MockResponse{failWith(KindInvalidResponse), okReply}, 2, false},
		{"invalid twice gives up", []MockResponse{failWith(KindInvalidResponse), failWith(KindInvalidResponse), okReply}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.replies...)
			resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(resp.Content) != `{"ok":true}` {
				t.Fatalf("content = %s", resp.Content)
			}
			if got := len(mock.Calls()); got != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	mock := NewMockProvider(failWith(KindUnavailable), okReply)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}
	if got := len(mock.Calls()); got > 1 {
		t.Fatalf("calls = %d after cancel", got)
	}
}

func TestRetry_Backoff(t *testing.T) {
	r := &retryingProvider{cfg: fastRetry()}
	hint := 7 * time.Millisecond
	b := r.backoff(&hint)

	if d, stop := b.Next(); stop || d != 7*time.Millisecond {
		t.Fatalf("first wait = %v, %v; want the 7ms hint", d, stop)
	}
	if hint != 0 {
		t.Fatalf("hint not consumed: %v", hint)
	}
	if d, stop := b.Next(); stop || d > 10*time.Millisecond {
		t.Fatalf("second wait = %v, %v", d, stop)
	}
	if _, stop := b.Next(); !stop {
		t.Fatal("expected backoff to stop after MaxAttempts-1 retries")
	}
}
