// Package orchestrator coordinates message routing between registered agents
// and delegates tool and intelligence invocations on their behalf.
//
// The Orchestrator is the central boundary for error isolation: failures
// inside a single agent, tool or provider call are caught here, converted
// into structured error responses and recorded in the conversation history.
// They never propagate as errors past SendMessage, so one bad route cannot
// abort a caller's control flow.
package orchestrator
