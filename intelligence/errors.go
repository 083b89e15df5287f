package intelligence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingEngine is returned when the invocation config has no engine.
var ErrMissingEngine = errors.New("intelligence config missing required field: engine")

// UnsupportedEngineError reports an engine name with no registered provider.
type UnsupportedEngineError struct {
	Engine    string
	Supported []string
}

func (e *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("unsupported intelligence engine %q (supported: %s)",
		e.Engine, strings.Join(e.Supported, ", "))
}

// AuthenticationError reports that the selected engine requires credentials
// and none were supplied.
type AuthenticationError struct {
	Engine string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("missing api key for intelligence engine %q", e.Engine)
}
