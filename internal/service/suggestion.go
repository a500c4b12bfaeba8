package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"sistersaas.app/assistant/common/id"
	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/common/logger"
	"sistersaas.app/assistant/core/config"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/queue"
	"sistersaas.app/assistant/internal/store"
)

var ErrSuggestionNotFound = errors.New("suggestion not found")

type SuggestionService interface {
	Generate(ctx context.Context, userID int64, projectInfo map[string]string) (*model.ProjectSuggestion, error)
	Get(ctx context.Context, suggestionID, userID int64) (*model.ProjectSuggestion, error)
	List(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error)
}

type suggestionService struct {
	suggestionStore store.SuggestionStore
	producer        queue.Producer
	providers       []llm.Provider
	extractor       llm.Extractor
	personality     assistant.Personality
	cfg             config.AssistantConfig
}

func NewSuggestionService(
	suggestionStore store.SuggestionStore,
	producer queue.Producer,
	providers []llm.Provider,
	extractor llm.Extractor,
	personality assistant.Personality,
	cfg config.AssistantConfig,
) SuggestionService {
	return &suggestionService{
		suggestionStore: suggestionStore,
		producer:        producer,
		providers:       providers,
		extractor:       extractor,
		personality:     personality,
		cfg:             cfg,
	}
}

// suggestionClassification is the structured shape extracted from a
// free-text suggestion reply.
type suggestionClassification struct {
	Title               string   `json:"title" jsonschema_description:"Short title summarizing the suggestion"`
	SuggestionType      string   `json:"suggestion_type" jsonschema:"enum=architecture,enum=performance,enum=security,enum=code_quality,enum=testing,enum=deployment,enum=other"`
	Priority            string   `json:"priority" jsonschema:"enum=low,enum=medium,enum=high,enum=critical"`
	ImplementationSteps []string `json:"implementation_steps" jsonschema_description:"Concrete ordered steps to implement the suggestion"`
	Confidence          float64  `json:"confidence" jsonschema_description:"Confidence in the classification between 0 and 1"`
}

var suggestionSchema = llm.GenerateSchema[suggestionClassification]()

func (s *suggestionService) Generate(ctx context.Context, userID int64, projectInfo map[string]string) (*model.ProjectSuggestion, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:  logger.Ptr(userID),
		Feature: logger.Ptr(model.FeatureSuggestion),
	})

	recorder := newUsageRecorder(s.producer, userID, model.FeatureSuggestion)
	orch := assistant.New(s.personality, assistant.NewHistory(), s.providers,
		assistant.WithRecorder(recorder),
		assistant.WithHistoryWindow(s.cfg.HistoryWindow),
		assistant.WithProviderTimeout(s.cfg.ProviderTimeout),
		assistant.WithMaxTokens(s.cfg.MaxTokens),
	)

	text := orch.SuggestImprovement(ctx, projectInfo)
	classification := s.classify(ctx, text)

	suggestion := &model.ProjectSuggestion{
		ID:                  id.New(),
		UserID:              userID,
		Title:               classification.Title,
		Description:         text,
		SuggestionType:      classification.SuggestionType,
		Priority:            classification.Priority,
		CurrentSituation:    flattenProjectInfo(projectInfo),
		ProposedSolution:    text,
		ImplementationSteps: classification.ImplementationSteps,
		AIConfidence:        classification.Confidence,
	}
	if err := s.suggestionStore.Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("creating suggestion: %w", err)
	}
	return suggestion, nil
}

// classify turns the prose reply into a typed classification, falling back
// to safe defaults when structured extraction is unavailable or fails.
func (s *suggestionService) classify(ctx context.Context, text string) suggestionClassification {
	fallback := suggestionClassification{
		Title:          firstLine(text),
		SuggestionType: model.SuggestionTypeOther,
		Priority:       model.PriorityMedium,
		Confidence:     0.5,
	}

	if s.extractor == nil || !s.extractor.Enabled() {
		return fallback
	}

	var classification suggestionClassification
	err := s.extractor.Extract(ctx, llm.ExtractRequest{
		SystemPrompt: "Classify the following project improvement suggestion.",
		UserPrompt:   text,
		SchemaName:   "suggestion_classification",
		Schema:       suggestionSchema,
	}, &classification)
	if err != nil {
		slog.WarnContext(ctx, "suggestion classification failed, using defaults",
			"error", err, "reason", llm.FailureReason(err))
		return fallback
	}

	if classification.Title == "" {
		classification.Title = fallback.Title
	}
	classification.SuggestionType = normalizeSuggestionType(classification.SuggestionType)
	classification.Priority = normalizePriority(classification.Priority)
	return classification
}

func normalizeSuggestionType(t string) string {
	switch t {
	case model.SuggestionTypeArchitecture, model.SuggestionTypePerformance,
		model.SuggestionTypeSecurity, model.SuggestionTypeCodeQuality,
		model.SuggestionTypeTesting, model.SuggestionTypeDeployment:
		return t
	default:
		return model.SuggestionTypeOther
	}
}

func normalizePriority(p string) string {
	switch p {
	case model.PriorityLow, model.PriorityHigh, model.PriorityCritical:
		return p
	default:
		return model.PriorityMedium
	}
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return logger.Truncate(line, 120)
}

func flattenProjectInfo(info map[string]string) string {
	keys := make([]string, 0, len(info))
	for key := range info {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, info[key]))
	}
	return strings.Join(lines, "\n")
}

func (s *suggestionService) Get(ctx context.Context, suggestionID, userID int64) (*model.ProjectSuggestion, error) {
	suggestion, err := s.suggestionStore.GetForUser(ctx, suggestionID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("getting suggestion: %w", err)
	}
	return suggestion, nil
}

func (s *suggestionService) List(ctx context.Context, userID int64, limit int) ([]model.ProjectSuggestion, error) {
	if limit <= 0 {
		limit = 20
	}
	suggestions, err := s.suggestionStore.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	return suggestions, nil
}
