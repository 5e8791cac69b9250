package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

var openaiModels = map[string]string{
	"gpt-mini": "gpt-4o-mini",
	"gpt":      "gpt-4o",
}

// chatBackend talks to the chat completions API of OpenAI or any
// compatible service.
type chatBackend struct {
	client *openai.Client
}

func newChatProvider(name, apiKey, model, baseURL string) (Provider, error) {
	if apiKey == "" {
		return nil, missingKey(name)
	}
	cc := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cc.BaseURL = baseURL
	}
	return &sdkProvider{
		name:  name,
		model: resolveModel(model, openaiModels),
		b:     &chatBackend{client: openai.NewClientWithConfig(cc)},
	}, nil
}

// NewOpenAIProvider returns a Provider backed by OpenAI chat completions.
// BaseURL points it at another compatible API.
func NewOpenAIProvider(cfg OpenAIConfig) (Provider, error) {
	return newChatProvider(ProviderOpenAI, cfg.APIKey, cfg.Model, cfg.BaseURL)
}

// NewOpenRouterProvider returns a chat completions Provider for OpenRouter.
func NewOpenRouterProvider(cfg OpenRouterConfig) (Provider, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}
	return newChatProvider(ProviderOpenRouter, cfg.APIKey, cfg.Model, base)
}

func (c *chatBackend) call(ctx context.Context, model string, req Request) (reply, error) {
	cr := openai.ChatCompletionRequest{
		Model:               model,
		Messages:            chatMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return reply{}, fmt.Errorf("marshal schema: %w", err)
		}
		cr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, cr)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return reply{}, statusError(apiErr.HTTPStatusCode, nil, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return reply{}, statusError(reqErr.HTTPStatusCode, nil, err)
		}
		return reply{}, err
	}
	if len(resp.Choices) == 0 {
		return reply{}, &Error{Kind: KindInvalidResponse, Err: errors.New("reply has no choices")}
	}

	choice := resp.Choices[0]
	return reply{
		content: json.RawMessage(choice.Message.Content),
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		model:     resp.Model,
		truncated: choice.FinishReason == openai.FinishReasonLength,
	}, nil
}

func chatMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
