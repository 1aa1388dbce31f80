package summarize

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpass/medpass/internal/agent/agenttest"
	"github.com/medpass/medpass/internal/wire"
)

func newTestServer(t *testing.T, session *agenttest.Session) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New("http://localhost:41244/", session).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestRunSummarizes(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{
		ToolNames: []string{"summarize_with_risks"},
		Replies: map[string]map[string]any{
			"summarize_with_risks": {
				"summary": "Stable patient with chronic migraines.",
				"risks":   []any{"Medication overuse", "Dehydration"},
			},
		},
	}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{
		"text":            "long clinical narrative",
		"clinical_record": map[string]any{"resourceType": "Bundle", "entry": []any{}},
	})
	require.Nil(t, resp.Error)
	assert.Equal(t, "Stable patient with chronic migraines.", resp.Payload["summary"])
	assert.Equal(t, []any{"Medication overuse", "Dehydration"}, resp.Payload["risks"])

	require.Len(t, session.Calls, 1)
	assert.Contains(t, session.Calls[0].Args, "text")
	assert.Contains(t, session.Calls[0].Args, "clinical_record")
}

func TestRunAcceptsRecordOnly(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{
		ToolNames: []string{"summarize_with_risks"},
		Replies: map[string]map[string]any{
			"summarize_with_risks": {"summary": "ok", "risks": []any{}},
		},
	}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{
		"clinical_record": map[string]any{"resourceType": "Bundle", "entry": []any{}},
	})
	require.Nil(t, resp.Error)
	require.Len(t, session.Calls, 1)
	assert.NotContains(t, session.Calls[0].Args, "text")
}

func TestRunRequiresTextOrRecord(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{ToolNames: []string{"summarize_with_risks"}}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeInvalidRequest, resp.Error.Code)
	assert.Empty(t, session.Calls)

	// Present but empty text counts as absent.
	resp = agenttest.Post(t, srv.URL, "run", map[string]any{"text": ""})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeInvalidRequest, resp.Error.Code)
}

func TestRunReportsMissingTool(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{ToolNames: []string{"translate"}}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{"text": "note"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeToolUnavailable, resp.Error.Code)
}

func TestRunReportsNonListRisks(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{
		ToolNames: []string{"summarize_with_risks"},
		Replies: map[string]map[string]any{
			"summarize_with_risks": {"summary": "ok", "risks": "none"},
		},
	}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{"text": "note"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeMalformedToolReply, resp.Error.Code)
}
