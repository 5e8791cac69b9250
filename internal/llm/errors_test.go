package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestStatusError(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")

	tests := []struct {
		status    int
		header    http.Header
		wantKind  Kind
		wantAfter time.Duration
	}{
		{http.StatusTooManyRequests, h, KindRateLimited, 7 * time.Second},
		{http.StatusTooManyRequests, nil, KindRateLimited, 0},
		{http.StatusUnauthorized, nil, KindRejected, 0},
		{http.StatusNotFound, nil, KindRejected, 0},
		{http.StatusRequestTimeout, nil, KindUnavailable, 0},
		{http.StatusBadGateway, nil, KindUnavailable, 0},
		{0, nil, KindUnavailable, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			e := statusError(tt.status, tt.header, errors.New("boom"))
			if e.Kind != tt.wantKind || e.RetryAfter != tt.wantAfter {
				t.Fatalf("got %v after %v, want %v after %v", e.Kind, e.RetryAfter, tt.wantKind, tt.wantAfter)
			}
		})
	}
}

func TestParseRetryAfter_IgnoresDates(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	if d := parseRetryAfter(h); d != 0 {
		t.Fatalf("got %v", d)
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("quota exhausted")
	err := fmt.Errorf("explain: %w", &Error{Kind: KindRateLimited, Provider: "openai", Status: 429, Err: cause})

	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to unwrap")
	}
	msg := err.Error()
	for _, want := range []string{"openai", "rate limited", "HTTP 429", "quota exhausted"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("%q does not mention %q", msg, want)
		}
	}
	if _, ok := KindOf(cause); ok {
		t.Fatal("plain errors have no kind")
	}
}
