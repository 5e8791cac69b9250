package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-5",
	"claude-haiku":  "claude-haiku-4-5",
}

type anthropicBackend struct {
	client anthropic.Client
}

// NewAnthropicProvider returns a Provider backed by the Messages API.
// opts are passed to the SDK client after the API key.
func NewAnthropicProvider(cfg AnthropicConfig, opts ...option.RequestOption) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, missingKey(ProviderAnthropic)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &sdkProvider{
		name:  ProviderAnthropic,
		model: resolveModel(cfg.Model, anthropicModels),
		b:     &anthropicBackend{client: anthropic.NewClient(opts...)},
	}, nil
}

func (a *anthropicBackend) call(ctx context.Context, model string, req Request) (reply, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if !errors.As(err, &apiErr) {
			return reply{}, err
		}
		var header http.Header
		if apiErr.Response != nil {
			header = apiErr.Response.Header
		}
		return reply{}, statusError(apiErr.StatusCode, header, err)
	}

	r := reply{
		usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		model:     string(msg.Model),
		truncated: msg.StopReason == anthropic.StopReasonMaxTokens,
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			r.content = json.RawMessage(block.Text)
			return r, nil
		}
	}
	return r, &Error{Kind: KindInvalidResponse, Err: errors.New("reply has no text block")}
}
