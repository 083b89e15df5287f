// Package logging provides a minimal logging interface and adapters for AgentWire.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the orchestrator and workflow runtime use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - AgentWireLogger with session/workflow context helpers
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	wire := agentwire.New(func(o *agentwire.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
