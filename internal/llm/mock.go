package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockModel is the model ID the mock provider reports.
const MockModel = "mock"

// MockResponse is one queued reply. A non-nil Err is returned instead of
// the content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays queued replies in order and records every request.
// It is safe for concurrent use.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	calls []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// Generate pops the next reply. An empty queue reports KindUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.queue) == 0 {
		return nil, &Error{Kind: KindUnavailable, Provider: ProviderMock, Err: errors.New("no queued response")}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]

	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: MockModel}, nil
}

func (m *MockProvider) ModelID() string { return MockModel }

// Queue appends replies.
func (m *MockProvider) Queue(responses ...MockResponse) {
	m.mu.Lock()
	m.queue = append(m.queue, responses...)
	m.mu.Unlock()
}

// Calls returns a copy of the requests seen so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
