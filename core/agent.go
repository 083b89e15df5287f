package core

import "context"

// Agent is the capability contract every participant must implement.
//
// Handle receives a message carrying a "task" discriminator and returns a
// structured response. Ordinary business failures must be reported inside the
// response as {"error": ...}, not as a returned error; a non-nil error (or a
// panic) is reserved for programming-level faults and is caught and converted
// into a structured error response at the orchestrator boundary.
//
// Implementations must:
//   - Respect context cancellation and deadlines on blocking work
//   - Be safe for concurrent invocation if registered once and dispatched
//     from multiple workflow instances
type Agent interface {
	Handle(ctx context.Context, msg Message) (Response, error)
}

// HandlerFunc adapts a plain function to the Agent interface.
type HandlerFunc func(ctx context.Context, msg Message) (Response, error)

// Handle implements Agent.
func (f HandlerFunc) Handle(ctx context.Context, msg Message) (Response, error) {
	return f(ctx, msg)
}
