package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentwire/core"
	"github.com/hupe1980/agentwire/intelligence"
	"github.com/hupe1980/agentwire/logging"
	"github.com/hupe1980/agentwire/protocol"
	"github.com/hupe1980/agentwire/tool"
)

// Options configures an Orchestrator instance.
type Options struct {
	// SessionID identifies this orchestrator's conversation log. Defaults to
	// a generated id.
	SessionID string

	// Tools is the registry consulted by ExecuteTool. Defaults to an empty
	// registry.
	Tools *tool.Registry

	// Intelligence is the gateway consulted by InvokeIntelligence. Defaults
	// to a gateway with no engines registered.
	Intelligence *intelligence.Gateway

	// CallTimeout bounds each agent dispatch with a context deadline. Zero
	// leaves dispatches unbounded, matching callers that manage deadlines
	// themselves.
	CallTimeout time.Duration

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator composes the agent registry, the conversation history and the
// tool/intelligence gateways behind register/send/broadcast/query operations.
//
// Concurrency model:
//   - Agent registration and lookup are safe under concurrent reads and
//     occasional writes (RWMutex inside core.Registry)
//   - History appends are atomic per entry
//   - SendMessage may be called from many goroutines simultaneously; agents
//     registered once must tolerate concurrent Handle calls
type Orchestrator struct {
	sessionID    string
	registry     *core.Registry
	history      *core.History
	tools        *tool.Registry
	intelligence *intelligence.Gateway
	callTimeout  time.Duration
	logger       logging.Logger
	startedAt    time.Time
}

// New creates an Orchestrator with optional overrides.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Tools:        tool.NewRegistry(),
		Intelligence: intelligence.NewGateway(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SessionID == "" {
		opts.SessionID = fmt.Sprintf("session-%s", uuid.NewString()[:8])
	}

	return &Orchestrator{
		sessionID:    opts.SessionID,
		registry:     core.NewRegistry(),
		history:      core.NewHistory(),
		tools:        opts.Tools,
		intelligence: opts.Intelligence,
		callTimeout:  opts.CallTimeout,
		logger:       opts.Logger,
		startedAt:    time.Now(),
	}
}

// RegisterAgent inserts an agent under the given id. Re-registration of an
// existing id is rejected with core.ErrDuplicateAgent; unregister first to
// replace an agent.
func (o *Orchestrator) RegisterAgent(id string, agent core.Agent) error {
	if err := o.registry.Register(id, agent); err != nil {
		return fmt.Errorf("register agent %q: %w", id, err)
	}
	o.logger.Info("orchestrator.agent.registered", "agent_id", id, "session_id", o.sessionID)
	return nil
}

// UnregisterAgent removes an agent and reports whether it was registered.
func (o *Orchestrator) UnregisterAgent(id string) bool {
	removed := o.registry.Unregister(id)
	if removed {
		o.logger.Info("orchestrator.agent.unregistered", "agent_id", id, "session_id", o.sessionID)
	}
	return removed
}

// SendMessage routes a message to the named agent and returns its response.
//
// The call never fails with an error value: an unknown agent id, an agent
// error return and an agent panic all surface as {"error": ...} responses so
// a single bad route cannot abort the caller's control flow. Every dispatch,
// success or failure, appends exactly one conversation entry with the
// measured wall-clock duration.
func (o *Orchestrator) SendMessage(ctx context.Context, agentID string, msg core.Message) core.Response {
	start := time.Now()

	agent, ok := o.registry.Get(agentID)
	if !ok {
		resp := core.ErrorResponse(fmt.Sprintf("agent not found: %s", agentID))
		o.record(agentID, msg, resp, time.Since(start))
		return resp
	}

	if o.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
	}

	resp := o.dispatch(ctx, agent, msg)
	o.record(agentID, msg, resp, time.Since(start))
	return resp
}

// dispatch invokes the agent capability, converting error returns and panics
// into structured error responses.
func (o *Orchestrator) dispatch(ctx context.Context, agent core.Agent, msg core.Message) (resp core.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = core.ErrorResponse(fmt.Sprintf("agent panic: %v", r))
		}
	}()

	result, err := agent.Handle(ctx, msg)
	if err != nil {
		return core.ErrorResponse(err.Error())
	}
	if result == nil {
		return core.ErrorResponse("agent returned no response")
	}
	return result
}

func (o *Orchestrator) record(agentID string, msg core.Message, resp core.Response, dur time.Duration) {
	o.history.Append(core.ConversationEntry{
		AgentID:   agentID,
		Message:   msg.Clone(),
		Response:  resp.Clone(),
		Duration:  dur,
		Timestamp: time.Now(),
	})
	if resp.IsError() {
		o.logger.Warn("orchestrator.dispatch.failed",
			"agent_id", agentID, "task", msg.Task(), "error", resp.Err(), "duration", dur)
		return
	}
	o.logger.Debug("orchestrator.dispatch.completed",
		"agent_id", agentID, "task", msg.Task(), "duration", dur)
}

// BroadcastMessage dispatches the message to every registered agent in
// registration order. One agent's failure never prevents dispatch to the
// others; the returned map carries exactly one response per registered agent.
func (o *Orchestrator) BroadcastMessage(ctx context.Context, msg core.Message) map[string]core.Response {
	results := make(map[string]core.Response)
	for _, id := range o.registry.IDs() {
		results[id] = o.SendMessage(ctx, id, msg)
	}
	return results
}

// ExecuteTool runs a registered tool by name and wraps its payload in the
// canonical tool_result envelope. Unknown names fail with tool.ErrUnknownTool;
// policy violations and internal faults surface as *tool.ToolError.
func (o *Orchestrator) ExecuteTool(ctx context.Context, name string, args map[string]any) (core.Response, error) {
	start := time.Now()
	result, err := o.tools.Execute(ctx, name, args)
	if err != nil {
		o.logger.Error("orchestrator.tool.failed", "tool", name, "error", err.Error())
		return nil, err
	}
	o.logger.Info("orchestrator.tool.completed", "tool", name, "duration", time.Since(start))
	return protocol.WrapToolResult(name, result), nil
}

// InvokeIntelligence sends a prompt to the engine selected by cfg. The call
// is synchronous and blocking with no internal retry policy; bound slow
// engines via the context deadline.
func (o *Orchestrator) InvokeIntelligence(ctx context.Context, prompt string, cfg intelligence.Config) (string, error) {
	return o.intelligence.Invoke(ctx, prompt, cfg)
}

// History returns a read-only snapshot of the conversation log, oldest first.
func (o *Orchestrator) History() []core.ConversationEntry {
	return o.history.Entries()
}

// ListAgents returns the registered agent ids in registration order.
func (o *Orchestrator) ListAgents() []string {
	return o.registry.IDs()
}

// HasAgent reports whether an agent is registered under id.
func (o *Orchestrator) HasAgent(id string) bool {
	_, ok := o.registry.Get(id)
	return ok
}

// SessionInfo describes the orchestrator's current session.
type SessionInfo struct {
	SessionID        string    `json:"session_id"`
	AgentCount       int       `json:"agent_count"`
	RegisteredAgents []string  `json:"registered_agents"`
	HistoryLength    int       `json:"history_length"`
	StartedAt        time.Time `json:"started_at"`
}

// GetSessionInfo returns read-only introspection data.
func (o *Orchestrator) GetSessionInfo() SessionInfo {
	return SessionInfo{
		SessionID:        o.sessionID,
		AgentCount:       o.registry.Len(),
		RegisteredAgents: o.registry.IDs(),
		HistoryLength:    o.history.Len(),
		StartedAt:        o.startedAt,
	}
}
