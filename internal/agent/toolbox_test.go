package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpass/medpass/internal/wire"
)

type fakeSession struct {
	tools    []string
	toolsErr error
	reply    map[string]any
	callErr  error
	calls    []string
}

func (f *fakeSession) Tools(context.Context) ([]string, error) {
	return f.tools, f.toolsErr
}

func (f *fakeSession) Call(_ context.Context, tool string, _ map[string]any) (map[string]any, error) {
	f.calls = append(f.calls, tool)
	return f.reply, f.callErr
}

func (f *fakeSession) Close() error { return nil }

func TestToolboxRejectsUnadvertisedTool(t *testing.T) {
	t.Parallel()

	session := &fakeSession{tools: []string{"translate"}}
	_, err := Toolbox{Session: session}.Call(context.Background(), "ocr", nil)

	var agentErr *Error
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, wire.CodeToolUnavailable, agentErr.Code)
	assert.Empty(t, session.calls, "call must not reach the session")
}

func TestToolboxReportsUnreachableProvider(t *testing.T) {
	t.Parallel()

	session := &fakeSession{toolsErr: errors.New("no such binary")}
	_, err := Toolbox{Session: session}.Call(context.Background(), "ocr", nil)

	var agentErr *Error
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, wire.CodeToolUnavailable, agentErr.Code)
	assert.Contains(t, agentErr.Message, "no such binary")
}

func TestToolboxCallsAdvertisedTool(t *testing.T) {
	t.Parallel()

	session := &fakeSession{
		tools: []string{"ocr", "translate"},
		reply: map[string]any{"text": "hola"},
	}
	reply, err := Toolbox{Session: session}.Call(context.Background(), "translate", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hola", reply["text"])
	assert.Equal(t, []string{"translate"}, session.calls)
}

func TestReplyHelpers(t *testing.T) {
	t.Parallel()

	reply := map[string]any{
		"text":   "ok",
		"risks":  []any{"a", "b"},
		"record": map[string]any{"resourceType": "Bundle"},
	}

	text, err := ReplyString(reply, "text")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	risks, err := ReplyStringList(reply, "risks")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, risks)

	m, err := ReplyMap(reply, "record")
	require.NoError(t, err)
	assert.Equal(t, "Bundle", m["resourceType"])

	var agentErr *Error
	_, err = ReplyString(reply, "absent")
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, wire.CodeMalformedToolReply, agentErr.Code)

	_, err = ReplyStringList(reply, "text")
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, wire.CodeMalformedToolReply, agentErr.Code)

	_, err = ReplyMap(reply, "risks")
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, wire.CodeMalformedToolReply, agentErr.Code)
}
