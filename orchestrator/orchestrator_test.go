package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/agentwire/core"
	"github.com/hupe1980/agentwire/intelligence"
	"github.com/hupe1980/agentwire/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoAgent() core.Agent {
	return core.HandlerFunc(func(_ context.Context, msg core.Message) (core.Response, error) {
		return core.Response{"response": msg.Task()}, nil
	})
}

func TestOrchestrator_SendMessage(t *testing.T) {
	o := New()
	require.NoError(t, o.RegisterAgent("echo", echoAgent()))

	resp := o.SendMessage(context.Background(), "echo", core.NewMessage("greet", nil))
	assert.False(t, resp.IsError())
	assert.Equal(t, "greet", resp["response"])

	history := o.History()
	require.Len(t, history, 1)
	assert.Equal(t, "echo", history[0].AgentID)
	assert.GreaterOrEqual(t, history[0].Duration, time.Duration(0))
}

func TestOrchestrator_SendMessage_UnknownAgent(t *testing.T) {
	o := New()

	resp := o.SendMessage(context.Background(), "ghost", core.NewMessage("greet", nil))
	assert.True(t, resp.IsError())
	assert.Contains(t, resp.Err(), "agent not found")

	// Failures are recorded too.
	assert.Len(t, o.History(), 1)
}

func TestOrchestrator_SendMessage_AgentError(t *testing.T) {
	o := New()
	require.NoError(t, o.RegisterAgent("faulty", core.HandlerFunc(
		func(_ context.Context, _ core.Message) (core.Response, error) {
			return nil, errors.New("internal fault")
		})))

	resp := o.SendMessage(context.Background(), "faulty", core.NewMessage("t", nil))
	assert.True(t, resp.IsError())
	assert.Equal(t, "internal fault", resp.Err())
	assert.Len(t, o.History(), 1)
}

func TestOrchestrator_SendMessage_AgentPanic(t *testing.T) {
	o := New()
	require.NoError(t, o.RegisterAgent("panicky", core.HandlerFunc(
		func(_ context.Context, _ core.Message) (core.Response, error) {
			panic("boom")
		})))

	resp := o.SendMessage(context.Background(), "panicky", core.NewMessage("t", nil))
	assert.True(t, resp.IsError())
	assert.Contains(t, resp.Err(), "boom")
	assert.Len(t, o.History(), 1)
}

func TestOrchestrator_SendMessage_HistoryGrowsPerCall(t *testing.T) {
	o := New()
	require.NoError(t, o.RegisterAgent("echo", echoAgent()))

	for i := 1; i <= 5; i++ {
		o.SendMessage(context.Background(), "echo", core.NewMessage("t", nil))
		assert.Len(t, o.History(), i)
	}
}

func TestOrchestrator_CallTimeout(t *testing.T) {
	o := New(func(opts *Options) {
		opts.CallTimeout = 20 * time.Millisecond
	})
	require.NoError(t, o.RegisterAgent("slow", core.HandlerFunc(
		func(ctx context.Context, _ core.Message) (core.Response, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return core.Response{"response": "too late"}, nil
			}
		})))

	resp := o.SendMessage(context.Background(), "slow", core.NewMessage("t", nil))
	assert.True(t, resp.IsError())
	assert.Contains(t, resp.Err(), "context deadline exceeded")
}

func TestOrchestrator_RegisterDuplicate(t *testing.T) {
	o := New()
	require.NoError(t, o.RegisterAgent("a", echoAgent()))
	assert.ErrorIs(t, o.RegisterAgent("a", echoAgent()), core.ErrDuplicateAgent)

	assert.True(t, o.UnregisterAgent("a"))
	assert.False(t, o.UnregisterAgent("a"))
	assert.NoError(t, o.RegisterAgent("a", echoAgent()))
}

func TestOrchestrator_Broadcast(t *testing.T) {
	o := New()
	require.NoError(t, o.RegisterAgent("ok-1", echoAgent()))
	require.NoError(t, o.RegisterAgent("bad", core.HandlerFunc(
		func(_ context.Context, _ core.Message) (core.Response, error) {
			return nil, errors.New("down")
		})))
	require.NoError(t, o.RegisterAgent("ok-2", echoAgent()))

	results := o.BroadcastMessage(context.Background(), core.NewMessage("ping", nil))
	require.Len(t, results, 3)
	assert.False(t, results["ok-1"].IsError())
	assert.True(t, results["bad"].IsError())
	assert.False(t, results["ok-2"].IsError())

	// One history entry per registered agent, in registration order.
	history := o.History()
	require.Len(t, history, 3)
	assert.Equal(t, "ok-1", history[0].AgentID)
	assert.Equal(t, "bad", history[1].AgentID)
	assert.Equal(t, "ok-2", history[2].AgentID)
}

func TestOrchestrator_ExecuteTool(t *testing.T) {
	tools := tool.NewRegistry()
	tools.Register(tool.NewFileWriter())
	o := New(func(opts *Options) {
		opts.Tools = tools
	})

	_, err := o.ExecuteTool(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, tool.ErrUnknownTool)

	_, err = o.ExecuteTool(context.Background(), "file_writer", map[string]any{
		"path":    "/etc/passwd",
		"content": "x",
	})
	assert.True(t, tool.IsPermissionError(err))

	dir := t.TempDir() + "/"
	tools.Register(tool.NewFileWriter(func(fw *tool.FileWriterOptions) {
		fw.AllowedPrefixes = []string{dir}
	}))
	resp, err := o.ExecuteTool(context.Background(), "file_writer", map[string]any{
		"path":    dir + "a.txt",
		"content": "x",
	})
	require.NoError(t, err)
	result, ok := resp["tool_result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "file_writer", result["name"])
	payload, ok := result["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, dir+"a.txt", payload["path"])
}

func TestOrchestrator_InvokeIntelligence_ConfigErrors(t *testing.T) {
	o := New()

	_, err := o.InvokeIntelligence(context.Background(), "hi", intelligence.Config{})
	assert.ErrorIs(t, err, intelligence.ErrMissingEngine)

	_, err = o.InvokeIntelligence(context.Background(), "hi", intelligence.Config{Engine: "unsupported"})
	var unsupported *intelligence.UnsupportedEngineError
	assert.ErrorAs(t, err, &unsupported)
}

func TestOrchestrator_SessionInfo(t *testing.T) {
	o := New(func(opts *Options) {
		opts.SessionID = "session-test"
	})
	require.NoError(t, o.RegisterAgent("a", echoAgent()))
	require.NoError(t, o.RegisterAgent("b", echoAgent()))
	o.SendMessage(context.Background(), "a", core.NewMessage("t", nil))

	info := o.GetSessionInfo()
	assert.Equal(t, "session-test", info.SessionID)
	assert.Equal(t, 2, info.AgentCount)
	assert.Equal(t, []string{"a", "b"}, info.RegisteredAgents)
	assert.Equal(t, 1, info.HistoryLength)

	assert.Equal(t, []string{"a", "b"}, o.ListAgents())
	assert.True(t, o.HasAgent("a"))
	assert.False(t, o.HasAgent("c"))
}
