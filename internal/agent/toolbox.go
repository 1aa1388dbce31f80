package agent

import (
	"context"
	"fmt"
	"slices"

	"github.com/medpass/medpass/internal/wire"
)

// Toolbox gives stage handlers checked access to the tool provider: every
// call verifies the tool against the session's cached snapshot first.
type Toolbox struct {
	Session ToolSession
}

// Call invokes a tool after confirming the provider advertises it. An
// unreachable provider or an unadvertised tool fails as ToolUnavailable.
func (t Toolbox) Call(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	tools, err := t.Session.Tools(ctx)
	if err != nil {
		return nil, ToolUnavailable(fmt.Sprintf("tool provider unavailable: %v", err), nil)
	}
	if !slices.Contains(tools, tool) {
		return nil, ToolUnavailable(fmt.Sprintf("tool %q not advertised", tool), tools)
	}
	return t.Session.Call(ctx, tool, args)
}

// ReplyString pulls a required string out of a tool reply.
func ReplyString(reply map[string]any, key string) (string, error) {
	s, err := wire.String(reply, key)
	if err != nil {
		return "", MalformedToolReply("tool reply: %v", err)
	}
	return s, nil
}

// ReplyStringList pulls a required list of strings out of a tool reply.
func ReplyStringList(reply map[string]any, key string) ([]string, error) {
	list, err := wire.StringList(reply, key)
	if err != nil {
		return nil, MalformedToolReply("tool reply: %v", err)
	}
	return list, nil
}

// ReplyMap pulls a required object out of a tool reply.
func ReplyMap(reply map[string]any, key string) (map[string]any, error) {
	m, err := wire.Map(reply, key)
	if err != nil {
		return nil, MalformedToolReply("tool reply: %v", err)
	}
	return m, nil
}
