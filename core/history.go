package core

import (
	"sync"
	"time"
)

// ConversationEntry records one completed dispatch: the request, the response
// (success or structured failure), the measured wall-clock duration and the
// moment the dispatch finished. Entries are immutable once appended.
type ConversationEntry struct {
	AgentID   string        `json:"agent_id"`
	Message   Message       `json:"message"`
	Response  Response      `json:"response"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// History is the append-only, ordered log of dispatch events. Appends are
// atomic per entry so concurrent dispatches never interleave a partially
// written record. Entries are never mutated or removed.
type History struct {
	mu      sync.RWMutex
	entries []ConversationEntry
}

// NewHistory constructs an empty conversation history.
func NewHistory() *History {
	return &History{}
}

// Append adds an entry in strict call order.
func (h *History) Append(entry ConversationEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
}

// Entries returns a snapshot of all entries, oldest first.
func (h *History) Entries() []ConversationEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	snapshot := make([]ConversationEntry, len(h.entries))
	copy(snapshot, h.entries)
	return snapshot
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
