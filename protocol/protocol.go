// Package protocol implements the structured wire shapes exchanged between
// agents: tool_request, tool_result and final_response envelopes. It parses
// either pre-decoded maps or raw JSON text and offers accessors that keep
// discriminator handling in one place.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentwire/core"
)

// Envelope field names. Fixed; agents and clients must match them exactly.
const (
	FieldToolRequest         = "tool_request"
	FieldToolResult          = "tool_result"
	FieldFinalResponse       = "final_response"
	FieldIntelligenceRequest = "intelligence_request"
)

// MalformedResponseError reports structured text that could not be decoded
// into a message map.
type MalformedResponseError struct {
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed agent response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// ParseResponse normalizes an agent or provider reply into a Response map.
// It accepts an already-decoded map (core.Response, core.Message or plain
// map[string]any), raw JSON text (string or []byte), or nil. Invalid text and
// non-object JSON fail with *MalformedResponseError.
func ParseResponse(v any) (core.Response, error) {
	switch resp := v.(type) {
	case nil:
		return nil, &MalformedResponseError{Cause: fmt.Errorf("nil response")}
	case core.Response:
		return resp, nil
	case core.Message:
		return core.Response(resp), nil
	case map[string]any:
		return core.Response(resp), nil
	case string:
		return parseJSON([]byte(resp))
	case []byte:
		return parseJSON(resp)
	default:
		return nil, &MalformedResponseError{Cause: fmt.Errorf("unsupported response type %T", v)}
	}
}

func parseJSON(data []byte) (core.Response, error) {
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &MalformedResponseError{Cause: err}
	}
	return core.Response(decoded), nil
}

// IsToolRequest reports whether the message asks for a tool invocation.
func IsToolRequest(msg core.Response) bool {
	_, ok := msg[FieldToolRequest]
	return ok
}

// ToolRequest extracts the requested tool name and arguments. Missing args
// default to an empty map.
func ToolRequest(msg core.Response) (string, map[string]any, error) {
	raw, ok := msg[FieldToolRequest]
	if !ok {
		return "", nil, fmt.Errorf("message carries no %s", FieldToolRequest)
	}
	req, ok := raw.(map[string]any)
	if !ok {
		return "", nil, &MalformedResponseError{Cause: fmt.Errorf("%s is %T, want object", FieldToolRequest, raw)}
	}
	name, ok := req["name"].(string)
	if !ok || name == "" {
		return "", nil, &MalformedResponseError{Cause: fmt.Errorf("%s has no tool name", FieldToolRequest)}
	}
	args, _ := req["args"].(map[string]any)
	if args == nil {
		args = map[string]any{}
	}
	return name, args, nil
}

// WrapToolResult builds the canonical tool_result envelope.
func WrapToolResult(name string, result map[string]any) core.Response {
	return core.Response{
		FieldToolResult: map[string]any{
			"name":   name,
			"result": result,
		},
	}
}

// IsFinalResponse reports whether the message carries a terminal payload.
func IsFinalResponse(msg core.Response) bool {
	_, ok := msg[FieldFinalResponse]
	return ok
}

// FinalResponse extracts the terminal payload of a final_response envelope.
func FinalResponse(msg core.Response) (map[string]any, error) {
	raw, ok := msg[FieldFinalResponse]
	if !ok {
		return nil, fmt.Errorf("message carries no %s", FieldFinalResponse)
	}
	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{Cause: fmt.Errorf("%s is %T, want object", FieldFinalResponse, raw)}
	}
	return payload, nil
}

// IsIntelligenceRequest reports whether the message asks for a provider call.
func IsIntelligenceRequest(msg core.Response) bool {
	_, ok := msg[FieldIntelligenceRequest]
	return ok
}
