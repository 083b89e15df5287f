// Package core contains the shared primitives of AgentWire: the Message and
// Response payload types, the Agent capability interface, the concurrency-safe
// agent Registry and the append-only conversation History.
//
// The package has no dependencies on the rest of the module, so agents, tools
// and providers can implement its interfaces without pulling in orchestration
// machinery.
package core
