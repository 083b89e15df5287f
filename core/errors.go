package core

import "errors"

var (
	// ErrDuplicateAgent is returned when registering an agent under an id
	// that is already present. Re-registration is rejected, never a silent
	// overwrite; unregister first to replace an agent.
	ErrDuplicateAgent = errors.New("agent id already registered")
)
