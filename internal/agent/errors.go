package agent

import (
	"errors"
	"fmt"

	"github.com/medpass/medpass/internal/wire"
)

// Error is a stage-level failure tagged with the wire code it surfaces as.
type Error struct {
	Code    string
	Message string
	Detail  any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// InvalidRequest flags a payload that failed validation before any tool was
// invoked.
func InvalidRequest(format string, args ...any) *Error {
	return &Error{Code: wire.CodeInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedCapability flags an operation the agent does not declare.
func UnsupportedCapability(capability string) *Error {
	return &Error{
		Code:    wire.CodeUnsupportedCapability,
		Message: fmt.Sprintf("capability %q not supported", capability),
	}
}

// ToolUnavailable flags a tool missing from the provider's advertised
// snapshot, or a provider that could not be reached at all.
func ToolUnavailable(message string, detail any) *Error {
	return &Error{Code: wire.CodeToolUnavailable, Message: message, Detail: detail}
}

// MalformedToolReply flags a tool that responded without a contractually
// required field, or with something other than a JSON object.
func MalformedToolReply(format string, args ...any) *Error {
	return &Error{Code: wire.CodeMalformedToolReply, Message: fmt.Sprintf(format, args...)}
}

// wireError converts a handler failure into the envelope error variant.
// Untagged errors surface with the internal code.
func wireError(err error) *wire.ErrorInfo {
	var agentErr *Error
	if errors.As(err, &agentErr) {
		return &wire.ErrorInfo{
			Code:    agentErr.Code,
			Message: agentErr.Message,
			Detail:  agentErr.Detail,
		}
	}
	return &wire.ErrorInfo{Code: wire.CodeInternal, Message: err.Error()}
}
