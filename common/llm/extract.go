package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Extractor produces structured output conforming to a JSON schema.
// It backs features that need machine-readable classifications (e.g. turning
// a suggestion reply into type/priority/steps) rather than prose.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest, result any) error
	Enabled() bool
}

type ExtractRequest struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any
	MaxTokens    int
}

type extractor struct {
	client     openai.Client
	model      string
	configured bool
}

// NewExtractor creates an Extractor over the OpenAI structured-output API.
// Unconfigured (empty key) extractors report Enabled() == false and fail
// fast from Extract; callers fall back to defaults.
func NewExtractor(cfg Config) Extractor {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	if cfg.APIKey == "" {
		return &extractor{model: model}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &extractor{
		client:     openai.NewClient(opts...),
		model:      model,
		configured: true,
	}
}

func (e *extractor) Enabled() bool {
	return e.configured
}

func (e *extractor) Extract(ctx context.Context, req ExtractRequest, result any) error {
	if !e.configured {
		return ErrNotConfigured
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        req.SchemaName,
		Description: openai.String("Structured response schema"),
		Schema:      req.Schema,
		Strict:      openai.Bool(true),
	}

	params := openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		MaxTokens: openai.Int(int64(maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	}

	start := time.Now()
	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return fmt.Errorf("openai extract: %w", err)
	}

	slog.DebugContext(ctx, "structured extraction completed",
		"model", e.model,
		"schema", req.SchemaName,
		"duration_ms", time.Since(start).Milliseconds())

	if len(resp.Choices) == 0 {
		return fmt.Errorf("no choices in response")
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// GenerateSchema generates a strict JSON schema for T.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
