package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatCompletion(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func chatFailure(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "error", "message": http.StatusText(status)},
		})
	}
}

func openaiServer(t *testing.T, handler http.HandlerFunc) Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestOpenAI_Generate(t *testing.T) {
	var sent map[string]any
	p := openaiServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		chatCompletion(`{"explanation":"Chó means dog.","examples":["Con chó"]}`, "stop")(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a vocabulary tutor.",
		Messages:  UserMessage("Explain the answer."),
		Schema:    explanationTestSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if sent["model"] != "gpt-4o-mini" {
		t.Fatalf("request model = %v", sent["model"])
	}
	if msgs, _ := sent["messages"].([]any); len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", sent["messages"])
	}
}

func TestOpenAI_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    Kind
	}{
		{"length", chatCompletion(`{"explanation":"tru`, "length"), KindTruncated},
		{"rate limit", chatFailure(http.StatusTooManyRequests), KindRateLimited},
		{"bad request", chatFailure(http.StatusBadRequest), KindRejected},
		{"server error", chatFailure(http.StatusInternalServerError), KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := openaiServer(t, tt.handler)
			_, err := p.Generate(context.Background(), Request{Messages: UserMessage("test"), MaxTokens: 16})
			e, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if e.Kind != tt.want || e.Provider != ProviderOpenAI {
				t.Fatalf("got %v from %q, want %v", e.Kind, e.Provider, tt.want)
			}
		})
	}
}

func TestOpenRouter_BaseURLAndKey(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		chatCompletion("ok", "stop")(w, r)
	}))
	defer srv.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.0-flash-001", BaseURL: srv.URL + "/api/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi"), MaxTokens: 16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != "ok" || path != "/api/v1/chat/completions" {
		t.Fatalf("content %q path %q", resp.Content, path)
	}

	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
