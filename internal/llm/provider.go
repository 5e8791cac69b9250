package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider sends one request to a language model. When the request
// carries a Schema, the response Content is JSON validated against it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	System   string
	Messages []Message

	// Schema is the JSON Schema the reply must match. Without one the
	// reply text is returned as is.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero keeps the provider default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a one-message conversation.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema names a JSON Schema the reply must follow.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage
	// Model is the model that actually served the request.
	Model string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// reply is what an SDK backend hands back before validation.
type reply struct {
	content   json.RawMessage
	usage     Usage
	model     string
	truncated bool
}

// backend adapts one vendor SDK.
type backend interface {
	call(ctx context.Context, model string, req Request) (reply, error)
}

// sdkProvider turns backend replies into validated Responses and labels
// every failure with the provider name.
type sdkProvider struct {
	name  string
	model string
	b     backend
}

func (p *sdkProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	r, err := p.b.call(ctx, p.model, req)
	if err != nil {
		return nil, p.label(err)
	}
	if r.truncated {
		return nil, &Error{Kind: KindTruncated, Provider: p.name, Content: r.content}
	}
	if err := validateResponse(req.Schema, r.content); err != nil {
		return nil, p.label(err)
	}
	model := r.model
	if model == "" {
		model = p.model
	}
	return &Response{Content: r.content, Usage: r.usage, Model: model}, nil
}

func (p *sdkProvider) ModelID() string { return p.model }

func (p *sdkProvider) label(err error) error {
	if e, ok := err.(*Error); ok {
		e.Provider = p.name
		return e
	}
	return &Error{Kind: KindUnavailable, Provider: p.name, Err: err}
}

// resolveModel maps a friendly name such as "claude-haiku" to a model ID.
// Anything else is taken as a model ID already.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

func missingKey(provider string) error {
	return fmt.Errorf("%s API key is required", provider)
}
