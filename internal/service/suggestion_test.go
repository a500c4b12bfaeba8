package service_test

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sistersaas.app/assistant/common/id"
	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

var _ = Describe("SuggestionService", func() {
	var (
		ctx             context.Context
		suggestionStore *mockSuggestionStore
		producer        *mockProducer
		primary         *mockProvider
		extractor       *mockExtractor
	)

	const userID = int64(100)

	newService := func() service.SuggestionService {
		return service.NewSuggestionService(suggestionStore, producer,
			[]llm.Provider{primary}, extractor, assistant.DefaultPersonality(), testAssistantConfig())
	}

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		suggestionStore = &mockSuggestionStore{}
		producer = &mockProducer{}
		primary = &mockProvider{name: "anthropic", model: "claude-sonnet"}
		extractor = &mockExtractor{}
	})

	Describe("Generate", func() {
		It("stores the reply with classification from the extractor", func() {
			extractor.enabled = true
			extractor.extractFn = func(ctx context.Context, req llm.ExtractRequest, result any) error {
				return json.Unmarshal([]byte(`{
					"title": "Add caching",
					"suggestion_type": "performance",
					"priority": "high",
					"implementation_steps": ["profile", "add redis cache"],
					"confidence": 0.9
				}`), result)
			}

			var created *model.ProjectSuggestion
			suggestionStore.createFn = func(ctx context.Context, s *model.ProjectSuggestion) error {
				created = s
				return nil
			}

			svc := newService()
			suggestion, err := svc.Generate(ctx, userID, map[string]string{"stack": "django"})

			Expect(err).NotTo(HaveOccurred())
			Expect(created).NotTo(BeNil())
			Expect(suggestion.Title).To(Equal("Add caching"))
			Expect(suggestion.SuggestionType).To(Equal(model.SuggestionTypePerformance))
			Expect(suggestion.Priority).To(Equal(model.PriorityHigh))
			Expect(suggestion.ImplementationSteps).To(HaveLen(2))
			Expect(suggestion.AIConfidence).To(BeNumerically("~", 0.9))
			Expect(suggestion.ProposedSolution).To(Equal("mock reply"))
			Expect(suggestion.CurrentSituation).To(ContainSubstring("stack: django"))
		})

		It("falls back to default classification when the extractor is disabled", func() {
			svc := newService()
			suggestion, err := svc.Generate(ctx, userID, map[string]string{"issue": "slow"})

			Expect(err).NotTo(HaveOccurred())
			Expect(suggestion.SuggestionType).To(Equal(model.SuggestionTypeOther))
			Expect(suggestion.Priority).To(Equal(model.PriorityMedium))
			Expect(suggestion.Title).NotTo(BeEmpty())
		})

		It("falls back to defaults when extraction fails", func() {
			extractor.enabled = true
			extractor.extractFn = func(ctx context.Context, req llm.ExtractRequest, result any) error {
				return errors.New("schema mismatch")
			}

			svc := newService()
			suggestion, err := svc.Generate(ctx, userID, map[string]string{"issue": "slow"})

			Expect(err).NotTo(HaveOccurred())
			Expect(suggestion.SuggestionType).To(Equal(model.SuggestionTypeOther))
			Expect(suggestion.Priority).To(Equal(model.PriorityMedium))
		})

		It("coerces unknown classification values", func() {
			extractor.enabled = true
			extractor.extractFn = func(ctx context.Context, req llm.ExtractRequest, result any) error {
				return json.Unmarshal([]byte(`{
					"title": "x",
					"suggestion_type": "galactic",
					"priority": "urgent-ish",
					"implementation_steps": [],
					"confidence": 0.7
				}`), result)
			}

			svc := newService()
			suggestion, err := svc.Generate(ctx, userID, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(suggestion.SuggestionType).To(Equal(model.SuggestionTypeOther))
			Expect(suggestion.Priority).To(Equal(model.PriorityMedium))
		})

		It("accounts usage with the suggestion feature", func() {
			svc := newService()
			_, err := svc.Generate(ctx, userID, map[string]string{"a": "b"})

			Expect(err).NotTo(HaveOccurred())
			events := producer.enqueued()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Feature).To(Equal(model.FeatureSuggestion))
		})
	})
})
