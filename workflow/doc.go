// Package workflow implements the declarative workflow runtime: YAML-defined
// step sequences executed against registered agents through an Orchestrator,
// with per-task state tracking and output-to-input routing between steps.
//
// A workflow is a named, ordered list of steps. Each step binds an agent and
// a task, may carry a static input template, and may route selected output
// fields into a later step's input. Steps execute strictly in declaration
// order; a failed step halts its instance immediately (fail-fast) without
// affecting other instances or direct dispatches.
package workflow
