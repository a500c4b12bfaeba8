package assistant_test

import (
	"context"
	"sync"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/internal/assistant"
)

type mockProvider struct {
	mu       sync.Mutex
	name     string
	model    string
	sendFunc func(ctx context.Context, req llm.Request) (*llm.Reply, error)
	calls    []llm.Request
}

func (m *mockProvider) Send(ctx context.Context, req llm.Request) (*llm.Reply, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	return m.sendFunc(ctx, req)
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockProvider) lastCall() llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func replyingProvider(name, model, text string) *mockProvider {
	return &mockProvider{
		name:  name,
		model: model,
		sendFunc: func(ctx context.Context, req llm.Request) (*llm.Reply, error) {
			return &llm.Reply{
				Text:             text,
				Provider:         name,
				Model:            model,
				PromptTokens:     12,
				CompletionTokens: 34,
			}, nil
		},
	}
}

func failingProvider(name string, err error) *mockProvider {
	return &mockProvider{
		name:  name,
		model: "broken-model",
		sendFunc: func(ctx context.Context, req llm.Request) (*llm.Reply, error) {
			return nil, err
		},
	}
}

type mockRecorder struct {
	mu             sync.Mutex
	userTurns      []assistant.Turn
	assistantTurns []assistant.Turn
	outcomes       []assistant.Outcome
}

func (m *mockRecorder) RecordUserTurn(ctx context.Context, turn assistant.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userTurns = append(m.userTurns, turn)
}

func (m *mockRecorder) RecordAssistantTurn(ctx context.Context, turn assistant.Turn, outcome assistant.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assistantTurns = append(m.assistantTurns, turn)
	m.outcomes = append(m.outcomes, outcome)
}
