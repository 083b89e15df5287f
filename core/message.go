package core

// FieldTask is the discriminator field every dispatch message must carry.
const FieldTask = "task"

// FieldError marks a response as a structured failure. Callers must check it
// before interpreting any other response field.
const FieldError = "error"

// Message is a structurally untyped payload routed to an agent. It always
// contains a "task" field naming the operation the agent should perform;
// everything else is agent-specific.
type Message map[string]any

// NewMessage creates a message for the given task, copying the provided
// fields so the caller's map stays independent.
func NewMessage(task string, fields map[string]any) Message {
	msg := make(Message, len(fields)+1)
	for k, v := range fields {
		msg[k] = v
	}
	msg[FieldTask] = task
	return msg
}

// Task returns the task discriminator, or "" if absent.
func (m Message) Task() string {
	task, _ := m[FieldTask].(string)
	return task
}

// Clone returns a copy of the message. Nested maps and slices are copied
// recursively so a recorded snapshot cannot be altered through the original.
func (m Message) Clone() Message {
	if m == nil {
		return nil
	}
	clone := make(Message, len(m))
	for k, v := range m {
		clone[k] = copyValue(v)
	}
	return clone
}

// copyValue deep-copies the nested map/slice shapes that JSON-style payloads
// are built from; all other values are returned as-is.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = copyValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = copyValue(e)
		}
		return s
	default:
		return v
	}
}

// Response is an agent's structured reply. Exactly one discriminator variant
// is authoritative: "response", "error", "tool_request",
// "intelligence_request", or a "workflow_status" envelope combining
// "workflow_status" with one of the others.
type Response map[string]any

// ErrorResponse builds the canonical structured failure response.
func ErrorResponse(msg string) Response {
	return Response{FieldError: msg}
}

// IsError reports whether the response carries the error discriminator.
func (r Response) IsError() bool {
	_, ok := r[FieldError]
	return ok
}

// Err returns the error message, or "" if the response is not a failure.
func (r Response) Err() string {
	s, _ := r[FieldError].(string)
	return s
}

// Clone returns a copy of the response. Nested maps and slices are copied
// recursively so a recorded snapshot cannot be altered through the original.
func (r Response) Clone() Response {
	if r == nil {
		return nil
	}
	clone := make(Response, len(r))
	for k, v := range r {
		clone[k] = copyValue(v)
	}
	return clone
}
