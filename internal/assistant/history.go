package assistant

import (
	"sync"
	"time"

	"sistersaas.app/assistant/common/llm"
	"sistersaas.app/assistant/internal/model"
)

// Turn is one exchanged message, immutable once appended.
type Turn struct {
	Role      string
	Content   string
	CreatedAt time.Time
	Metadata  map[string]string
}

// History is an ordered, append-only log of turns for one chat session.
// Appends and clears are serialized; reads see a consistent snapshot. Growth
// is unbounded by design — providers only ever see RecentWindow.
type History struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewHistory() *History {
	return &History{}
}

// NewHistoryFromTurns rebuilds a history from persisted turns in their
// original order.
func NewHistoryFromTurns(turns []Turn) *History {
	h := &History{turns: make([]Turn, len(turns))}
	copy(h.turns, turns)
	return h
}

// Append adds a turn at the end.
func (h *History) Append(turn Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turn)
}

// RecentWindow returns, in chronological order, the last n user/assistant
// turns as provider messages. System turns are not provider-conversation
// turns and are excluded. Returns fewer than n when the history is shorter.
func (h *History) RecentWindow(n int) []llm.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 {
		return nil
	}

	window := make([]llm.Message, 0, n)
	for _, turn := range h.turns {
		if turn.Role != model.RoleUser && turn.Role != model.RoleAssistant {
			continue
		}
		window = append(window, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	if len(window) > n {
		window = window[len(window)-n:]
	}
	return window
}

// Clear atomically discards all turns.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

// Snapshot returns up to limit most recent turns, newest-last, for external
// reporting. The returned slice is a copy.
func (h *History) Snapshot(limit int) []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || len(h.turns) == 0 {
		return nil
	}

	start := 0
	if len(h.turns) > limit {
		start = len(h.turns) - limit
	}

	out := make([]Turn, len(h.turns)-start)
	copy(out, h.turns[start:])
	return out
}

// Len reports the number of stored turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}
