// Package agenttest provides a scriptable in-memory tool session and small
// HTTP helpers for stage agent tests.
package agenttest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medpass/medpass/internal/wire"
)

// Call records one tool invocation made through the session.
type Call struct {
	Tool string
	Args map[string]any
}

// Session is a ToolSession whose advertised tools and replies are scripted
// per test.
type Session struct {
	ToolNames []string
	ToolsErr  error
	Replies   map[string]map[string]any
	ReplyErr  map[string]error
	Calls     []Call
}

// Tools implements agent.ToolSession.
func (s *Session) Tools(context.Context) ([]string, error) {
	return s.ToolNames, s.ToolsErr
}

// Call implements agent.ToolSession.
func (s *Session) Call(_ context.Context, tool string, args map[string]any) (map[string]any, error) {
	s.Calls = append(s.Calls, Call{Tool: tool, Args: args})
	if err, ok := s.ReplyErr[tool]; ok {
		return nil, err
	}
	reply, ok := s.Replies[tool]
	if !ok {
		return nil, fmt.Errorf("no scripted reply for tool %s", tool)
	}
	return reply, nil
}

// Close implements agent.ToolSession.
func (s *Session) Close() error { return nil }

// Post sends one envelope to a stage server and decodes the reply.
func Post(t testing.TB, baseURL, capability string, payload map[string]any) wire.Response {
	t.Helper()

	body, err := json.Marshal(wire.NewRequest(capability, payload))
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/messages", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded, err := wire.DecodeResponse(data)
	require.NoError(t, err)
	return decoded
}
