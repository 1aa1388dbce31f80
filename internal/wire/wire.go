// Package wire defines the envelope exchanged between the orchestrator and
// every stage agent: a request carrying one capability invocation, and a
// response that is either a payload or an error, never both.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error codes carried on the wire.
const (
	CodeInvalidRequest        = "invalid_request"
	CodeUnsupportedCapability = "unsupported_capability"
	CodeToolUnavailable       = "tool_unavailable"
	CodeMalformedToolReply    = "malformed_tool_reply"
	CodeUpstreamStageError    = "upstream_stage_error"
	CodeInternal              = "internal"
)

// Sentinel errors for payload field extraction.
var (
	ErrMissingKey = errors.New("missing key")
	ErrWrongType  = errors.New("wrong type")
)

// Request is a single capability invocation sent to a stage agent.
type Request struct {
	MessageID  string         `json:"message_id"`
	Capability string         `json:"capability"`
	Payload    map[string]any `json:"payload"`
}

// NewRequest builds a request with a fresh message ID.
func NewRequest(capability string, payload map[string]any) Request {
	return Request{
		MessageID:  uuid.NewString(),
		Capability: capability,
		Payload:    payload,
	}
}

// ErrorInfo is the error variant of a stage response.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *ErrorInfo) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Response is the stage agent reply envelope.
type Response struct {
	MessageID string         `json:"message_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Error     *ErrorInfo     `json:"error,omitempty"`
}

// OK builds a payload response.
func OK(messageID string, payload map[string]any) Response {
	return Response{MessageID: messageID, Payload: payload}
}

// Fail builds an error response.
func Fail(messageID, code, message string, detail any) Response {
	return Response{
		MessageID: messageID,
		Error:     &ErrorInfo{Code: code, Message: message, Detail: detail},
	}
}

// DecodeResponse parses a response envelope. The two variants are tried in a
// fixed order: an error marker wins even when a payload is also present, and
// a body matching neither variant is rejected rather than defaulted.
func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response envelope: %w", err)
	}
	if resp.Error != nil {
		resp.Payload = nil
		return resp, nil
	}
	if resp.Payload == nil {
		return Response{}, errors.New("response envelope carries neither payload nor error")
	}
	return resp, nil
}

// DecodeRequest parses a request envelope.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("decode request envelope: %w", err)
	}
	if req.Capability == "" {
		return Request{}, errors.New("request envelope missing capability")
	}
	return req, nil
}

// String extracts a required string field from a payload.
func String(payload map[string]any, key string) (string, error) {
	v, ok := payload[key]
	if !ok {
		return "", fmt.Errorf("payload key %q: %w", key, ErrMissingKey)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("payload key %q: %w (want string, got %T)", key, ErrWrongType, v)
	}
	return s, nil
}

// OptionalString extracts a string field, returning def when absent.
func OptionalString(payload map[string]any, key, def string) string {
	if s, err := String(payload, key); err == nil {
		return s
	}
	return def
}

// StringList extracts a required list-of-strings field. JSON decoding yields
// []any, so both []string and []any element shapes are accepted.
func StringList(payload map[string]any, key string) ([]string, error) {
	v, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("payload key %q: %w", key, ErrMissingKey)
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("payload key %q[%d]: %w (want string, got %T)", key, i, ErrWrongType, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("payload key %q: %w (want list, got %T)", key, ErrWrongType, v)
	}
}

// Map extracts a required object field from a payload.
func Map(payload map[string]any, key string) (map[string]any, error) {
	v, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("payload key %q: %w", key, ErrMissingKey)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload key %q: %w (want object, got %T)", key, ErrWrongType, v)
	}
	return m, nil
}
