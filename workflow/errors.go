package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConfig is returned when an operation requires a loaded workflow
	// configuration and none has been loaded yet.
	ErrNoConfig = errors.New("no workflow configuration loaded")

	// ErrUnknownInstance is returned when querying or waiting on a workflow
	// instance id that was never created.
	ErrUnknownInstance = errors.New("unknown workflow instance")
)

// InvalidWorkflowError reports a structural validation failure in a loaded
// workflow definition.
type InvalidWorkflowError struct {
	Workflow string
	Reason   string
}

func (e *InvalidWorkflowError) Error() string {
	return fmt.Sprintf("invalid workflow %q: %s", e.Workflow, e.Reason)
}

// UnknownWorkflowError reports an execution request for a name that is not
// present in the loaded configuration.
type UnknownWorkflowError struct {
	Name string
}

func (e *UnknownWorkflowError) Error() string {
	return fmt.Sprintf("unknown workflow: %s", e.Name)
}

// UnknownAgentIDError reports a binding attempt for an agent id that no
// loaded workflow references.
type UnknownAgentIDError struct {
	ID string
}

func (e *UnknownAgentIDError) Error() string {
	return fmt.Sprintf("agent id %q is not referenced by any loaded workflow", e.ID)
}
