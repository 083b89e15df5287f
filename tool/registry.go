package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentwire/internal/util"
)

// Registry is an explicit, concurrency-safe mapping from tool name to
// implementation. It is owned by (or injected into) an orchestrator rather
// than being process-wide state, so independent orchestrators can carry
// independent tool sets.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry constructs an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its name. Registering the same name twice
// replaces the previous implementation; tool sets are assembled once at
// setup time, so last-writer-wins is acceptable here.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the tool registered under name, if any.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Execute validates args against the tool's declared schema and invokes it.
// Unknown names fail with ErrUnknownTool; validation failures and execution
// faults surface as *ToolError.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if schema := t.Parameters(); schema != nil {
		if err := util.ValidateParameters(args, schema); err != nil {
			return nil, &ToolError{
				Tool:    name,
				Message: fmt.Sprintf("parameter validation failed: %v", err),
				Code:    CodeValidation,
				Details: err,
			}
		}
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			return nil, toolErr
		}
		return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeExecution}
	}
	return result, nil
}
