// Package agentwire provides a high-level façade over the message-routing
// orchestrator and the declarative workflow runtime, enabling rapid
// construction of multi‑agent coordination systems. Most applications
// interact with this package by:
//  1. Creating an AgentWire via New() (optionally overriding tools, engines or logging)
//  2. Registering one or more agents under stable ids
//  3. Routing messages directly (Send, Broadcast) or loading a workflow
//     configuration and executing named workflows through the runtime
//
// The façade delegates message routing to orchestrator.Orchestrator and
// workflow execution to workflow.Runtime while keeping setup and usage
// ergonomics concise. Defaults are safe for local development: an empty tool
// registry with the file_writer tool installed, all built-in intelligence
// engines registered (they fail cleanly without credentials), and no logging.
package agentwire

import (
	"context"
	"time"

	"github.com/hupe1980/agentwire/core"
	"github.com/hupe1980/agentwire/intelligence"
	"github.com/hupe1980/agentwire/intelligence/anthropic"
	"github.com/hupe1980/agentwire/intelligence/local"
	"github.com/hupe1980/agentwire/intelligence/openai"
	"github.com/hupe1980/agentwire/logging"
	"github.com/hupe1980/agentwire/orchestrator"
	"github.com/hupe1980/agentwire/tool"
	"github.com/hupe1980/agentwire/workflow"
)

// Options configures the AgentWire instance.
type Options struct {
	// SessionID identifies the orchestrator's conversation log. Defaults to a
	// generated id.
	SessionID string

	// Tools is the tool registry consulted by ExecuteTool. Defaults to a
	// registry with the file_writer tool installed.
	Tools *tool.Registry

	// Intelligence is the engine gateway consulted by InvokeIntelligence.
	// Defaults to a gateway with the openai, anthropic and local engines
	// registered.
	Intelligence *intelligence.Gateway

	// CallTimeout bounds each agent dispatch with a context deadline. Zero
	// leaves dispatches unbounded.
	CallTimeout time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentWire is the high-level façade aggregating the orchestrator and its
// tool and intelligence gateways.
type AgentWire struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates a new AgentWire instance with optional overrides. Any unset
// service is initialized with a ready-to-use default.
func New(optFns ...func(o *Options)) *AgentWire {
	tools := tool.NewRegistry()
	tools.Register(tool.NewFileWriter())

	gateway := intelligence.NewGateway()
	gateway.Register(openai.New())
	gateway.Register(anthropic.New())
	gateway.Register(local.New())

	opts := Options{
		Tools:        tools,
		Intelligence: gateway,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.SessionID = opts.SessionID
		o.Tools = opts.Tools
		o.Intelligence = opts.Intelligence
		o.CallTimeout = opts.CallTimeout
		o.Logger = opts.Logger
	})

	return &AgentWire{opts: opts, orch: orch}
}

// Orchestrator exposes the underlying orchestrator for callers that need the
// full surface.
func (w *AgentWire) Orchestrator() *orchestrator.Orchestrator { return w.orch }

// RegisterAgent adds an agent under the given id. Re-registration of an
// existing id is rejected.
func (w *AgentWire) RegisterAgent(id string, agent core.Agent) error {
	return w.orch.RegisterAgent(id, agent)
}

// UnregisterAgent removes an agent and reports whether it was registered.
func (w *AgentWire) UnregisterAgent(id string) bool {
	return w.orch.UnregisterAgent(id)
}

// Send routes a message to the named agent. Failures surface as structured
// {"error": ...} responses, never as a raised error.
func (w *AgentWire) Send(ctx context.Context, agentID string, msg core.Message) core.Response {
	return w.orch.SendMessage(ctx, agentID, msg)
}

// Broadcast dispatches the message to every registered agent and returns one
// response per agent.
func (w *AgentWire) Broadcast(ctx context.Context, msg core.Message) map[string]core.Response {
	return w.orch.BroadcastMessage(ctx, msg)
}

// ExecuteTool runs a registered tool by name and wraps its payload in the
// tool_result envelope.
func (w *AgentWire) ExecuteTool(ctx context.Context, name string, args map[string]any) (core.Response, error) {
	return w.orch.ExecuteTool(ctx, name, args)
}

// InvokeIntelligence sends a prompt to the engine selected by cfg.
func (w *AgentWire) InvokeIntelligence(ctx context.Context, prompt string, cfg intelligence.Config) (string, error) {
	return w.orch.InvokeIntelligence(ctx, prompt, cfg)
}

// History returns the conversation log, oldest first.
func (w *AgentWire) History() []core.ConversationEntry {
	return w.orch.History()
}

// NewRuntime creates a workflow runtime bound to this instance's
// orchestrator.
func (w *AgentWire) NewRuntime(optFns ...func(o *workflow.Options)) *workflow.Runtime {
	return workflow.New(w.orch, optFns...)
}
