package service

import (
	"sync"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/core/config"
	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/queue"
	"sistersaas.app/assistant/internal/store"
)

type Services struct {
	stores       *store.Stores
	producer     queue.Producer
	providers    []llm.Provider
	extractor    llm.Extractor
	personality  assistant.Personality
	workOSCfg    config.WorkOSConfig
	assistantCfg config.AssistantConfig

	// Chat is stateful (per-session orchestrators), so it is built once.
	chatOnce sync.Once
	chat     ChatService
}

func NewServices(
	stores *store.Stores,
	producer queue.Producer,
	providers []llm.Provider,
	extractor llm.Extractor,
	workOSCfg config.WorkOSConfig,
	assistantCfg config.AssistantConfig,
) *Services {
	return &Services{
		stores:       stores,
		producer:     producer,
		providers:    providers,
		extractor:    extractor,
		personality:  assistant.DefaultPersonality(),
		workOSCfg:    workOSCfg,
		assistantCfg: assistantCfg,
	}
}

// Personality exposes the persona for surfaces that present it directly,
// like the status endpoint.
func (s *Services) Personality() assistant.Personality {
	return s.personality
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions(), s.workOSCfg)
}

func (s *Services) Chat() ChatService {
	s.chatOnce.Do(func() {
		s.chat = NewChatService(s.stores.Chats(), s.producer, s.providers, s.personality, s.assistantCfg)
	})
	return s.chat
}

func (s *Services) Reviews() ReviewService {
	return NewReviewService(s.stores.Reviews(), s.producer, s.providers, s.personality, s.assistantCfg)
}

func (s *Services) Suggestions() SuggestionService {
	return NewSuggestionService(s.stores.Suggestions(), s.producer, s.providers, s.extractor, s.personality, s.assistantCfg)
}

func (s *Services) Stats() StatsService {
	return NewStatsService(s.stores.Chats(), s.stores.Reviews(), s.stores.Suggestions(), s.stores.Usage())
}
