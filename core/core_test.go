package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Task(t *testing.T) {
	msg := NewMessage("greet", map[string]any{"name": "world"})
	assert.Equal(t, "greet", msg.Task())
	assert.Equal(t, "world", msg["name"])

	assert.Equal(t, "", Message{}.Task())
}

func TestMessage_Clone(t *testing.T) {
	msg := NewMessage("greet", map[string]any{"name": "world"})
	clone := msg.Clone()
	clone["name"] = "mutated"
	assert.Equal(t, "world", msg["name"])
}

func TestMessage_CloneNested(t *testing.T) {
	details := map[string]any{"city": "Berlin"}
	msg := NewMessage("greet", map[string]any{
		"details": details,
		"tags":    []any{"a", "b"},
	})
	clone := msg.Clone()

	// Mutating the original's nested values must not reach the clone.
	details["city"] = "mutated"
	msg["tags"].([]any)[0] = "mutated"

	assert.Equal(t, "Berlin", clone["details"].(map[string]any)["city"])
	assert.Equal(t, "a", clone["tags"].([]any)[0])
}

func TestResponse_CloneNested(t *testing.T) {
	payload := map[string]any{"greeting": "hello"}
	resp := Response{"response": payload}
	clone := resp.Clone()

	payload["greeting"] = "mutated"
	assert.Equal(t, "hello", clone["response"].(map[string]any)["greeting"])
}

func TestResponse_Error(t *testing.T) {
	resp := ErrorResponse("boom")
	assert.True(t, resp.IsError())
	assert.Equal(t, "boom", resp.Err())

	ok := Response{"response": "fine"}
	assert.False(t, ok.IsError())
	assert.Equal(t, "", ok.Err())
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	agent := HandlerFunc(func(_ context.Context, _ Message) (Response, error) {
		return Response{"response": "ok"}, nil
	})

	assert.NoError(t, reg.Register("a1", agent))
	assert.ErrorIs(t, reg.Register("a1", agent), ErrDuplicateAgent)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Order(t *testing.T) {
	reg := NewRegistry()
	agent := HandlerFunc(func(_ context.Context, _ Message) (Response, error) {
		return nil, nil
	})

	for _, id := range []string{"c", "a", "b"} {
		assert.NoError(t, reg.Register(id, agent))
	}
	assert.Equal(t, []string{"c", "a", "b"}, reg.IDs())

	assert.True(t, reg.Unregister("a"))
	assert.False(t, reg.Unregister("a"))
	assert.Equal(t, []string{"c", "b"}, reg.IDs())

	_, ok := reg.Get("a")
	assert.False(t, ok)
}

func TestHistory_AppendOrder(t *testing.T) {
	hist := NewHistory()
	for i, id := range []string{"first", "second", "third"} {
		hist.Append(ConversationEntry{
			AgentID:   id,
			Message:   NewMessage("t", nil),
			Response:  Response{"response": i},
			Duration:  time.Millisecond,
			Timestamp: time.Now(),
		})
	}

	entries := hist.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].AgentID)
	assert.Equal(t, "third", entries[2].AgentID)

	// Mutating the snapshot must not touch the log.
	entries[0].AgentID = "mutated"
	assert.Equal(t, "first", hist.Entries()[0].AgentID)
}
