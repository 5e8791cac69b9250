package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cuongduong73/ankiquiz/internal/store"
)

// loggedProvider appends one store event per request, successful or not.
type loggedProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	now      func() time.Time
}

// WithLogging records every request made through p in events, labelled
// with the provider name and the purpose and attempt from the context.
func WithLogging(p Provider, provider string, events store.EventRepo) Provider {
	return &loggedProvider{inner: p, provider: provider, events: events, now: time.Now}
}

func (l *loggedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		AttemptID:   AttemptFrom(ctx),
		LatencyMs:   l.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	switch {
	case resp != nil:
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	case err != nil:
		ev.ErrorMessage = err.Error()
		if e, ok := err.(*Error); ok && len(e.Content) > 0 {
			ev.ResponseBody = string(e.Content)
		}
	}

	// The event log never fails the request. The context may already be
	// done, so the append gets its own deadline.
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if logErr := l.events.AppendLLMRequest(logCtx, ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: log LLM request: %v\n", logErr)
	}
	return resp, err
}

func (l *loggedProvider) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders req the way `ankiquiz llm view` prints it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.MarshalIndent(req.Schema.Definition, "", "  "); err == nil {
			fmt.Fprintf(&b, "[schema %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
