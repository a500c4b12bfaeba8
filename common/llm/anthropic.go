package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250514"

type anthropicProvider struct {
	client     anthropic.Client
	model      string
	configured bool
}

// NewAnthropicProvider creates the Anthropic-backed Provider. An empty API
// key yields an unconfigured client whose Send fails fast.
func NewAnthropicProvider(cfg Config) Provider {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	if cfg.APIKey == "" {
		return &anthropicProvider{model: model}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicProvider{
		client:     anthropic.NewClient(opts...),
		model:      model,
		configured: true,
	}
}

func (p *anthropicProvider) Name() string {
	return ProviderAnthropic
}

func (p *anthropicProvider) Model() string {
	return p.model
}

func (p *anthropicProvider) Send(ctx context.Context, req Request) (*Reply, error) {
	if !p.configured {
		return nil, ErrNotConfigured
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages:  p.convertMessages(req),
	}

	// Anthropic takes the system prompt separately, not in the messages array.
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.SystemPrompt},
		}
	}

	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	start := time.Now()
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic chat: %w", err)
	}

	slog.DebugContext(ctx, "anthropic chat completed",
		"model", p.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason)

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("empty completion")
	}

	return &Reply{
		Text:             text,
		Provider:         ProviderAnthropic,
		Model:            p.model,
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}, nil
}

func (p *anthropicProvider) convertMessages(req Request) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)

	for _, msg := range req.History {
		role := anthropic.MessageParamRoleUser
		if msg.Role == "assistant" {
			role = anthropic.MessageParamRoleAssistant
		}
		messages = append(messages, anthropic.MessageParam{
			Role:    role,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(msg.Content)},
		})
	}

	messages = append(messages, anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleUser,
		Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(req.Message)},
	})

	return messages
}
