// Package tool implements the side-effecting capability subsystem: a
// concurrency-safe registry of named tools invoked with structured arguments,
// schema validation, consistent error codes and a FunctionTool adapter for
// exposing plain Go functions.
package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agentwire/internal/util"
)

// ErrUnknownTool is returned when executing a name with no registration.
var ErrUnknownTool = errors.New("unknown tool")

// Error codes attached to *ToolError for categorization.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodePermission = "PERMISSION_DENIED"
)

// Tool is a named, registered operation invoked with a map of arguments.
//
// Implementations should:
//   - Provide stable snake_case names
//   - Define a minimal JSON-Schema parameter map for validation
//   - Return *ToolError for policy violations so callers can categorize
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier used for registration and dispatch.
	Name() string

	// Description returns a human-readable summary of what the tool does.
	Description() string

	// Parameters returns a JSON-Schema-like map describing accepted arguments.
	Parameters() map[string]any

	// Call executes the tool. Arguments have already been validated against
	// the declared schema by the registry.
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// ValidationError re-exports the shared argument validation error type.
type ValidationError = util.ValidationError

// ToolError represents a failure during tool execution, carrying a code so
// callers can distinguish permission violations from internal faults.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the given categorization code.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// IsPermissionError reports whether err is a tool policy violation.
func IsPermissionError(err error) bool {
	var toolErr *ToolError
	return errors.As(err, &toolErr) && toolErr.Code == CodePermission
}
