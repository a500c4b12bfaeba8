package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o"

type openaiProvider struct {
	client     openai.Client
	model      string
	configured bool
}

// NewOpenAIProvider creates the OpenAI-backed Provider. An empty API key
// yields an unconfigured client whose Send fails fast.
func NewOpenAIProvider(cfg Config) Provider {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	if cfg.APIKey == "" {
		return &openaiProvider{model: model}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openaiProvider{
		client:     openai.NewClient(opts...),
		model:      model,
		configured: true,
	}
}

func (p *openaiProvider) Name() string {
	return ProviderOpenAI
}

func (p *openaiProvider) Model() string {
	return p.model
}

func (p *openaiProvider) Send(ctx context.Context, req Request) (*Reply, error) {
	if !p.configured {
		return nil, ErrNotConfigured
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	params := openai.ChatCompletionNewParams{
		Model:     p.model,
		Messages:  p.convertMessages(req),
		MaxTokens: openai.Int(int64(maxTokens)),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}

	slog.DebugContext(ctx, "openai chat completed",
		"model", p.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("empty completion")
	}

	return &Reply{
		Text:             text,
		Provider:         ProviderOpenAI,
		Model:            p.model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

func (p *openaiProvider) convertMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)

	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}

	for _, msg := range req.History {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case "user":
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	return append(messages, openai.UserMessage(req.Message))
}
