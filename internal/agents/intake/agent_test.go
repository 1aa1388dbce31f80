package intake

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
	srv := httptest.NewServer(New("http://localhost:41241/", session).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestRunRecognizesAndDetects(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{
		ToolNames: []string{"ocr", "detect_language"},
		Replies: map[string]map[string]any{
			"ocr":             {"text": "مريض يعاني من صداع", "metadata": map[string]any{"source": "tesseract", "used_lang": "ara"}},
			"detect_language": {"lang": "ar", "confidence": 0.97},
		},
	}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{
		"file_path":   "data/samples/note_ar.jpg",
		"locale_hint": "ara",
	})
	require.Nil(t, resp.Error)
	assert.Equal(t, "مريض يعاني من صداع", resp.Payload["text"])
	assert.Equal(t, "ar", resp.Payload["patient_lang"])

	meta, ok := resp.Payload["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "data/samples/note_ar.jpg", meta["source"])
	assert.Equal(t, "ara", meta["locale_hint"])

	require.Len(t, session.Calls, 2)
	assert.Equal(t, "ocr", session.Calls[0].Tool)
	assert.Equal(t, "detect_language", session.Calls[1].Tool)
	assert.Equal(t, "مريض يعاني من صداع", session.Calls[1].Args["text"])
}

func TestRunRejectsMissingKeys(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{ToolNames: []string{"ocr", "detect_language"}}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{"locale_hint": "ara"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeInvalidRequest, resp.Error.Code)
	assert.Empty(t, session.Calls, "validation failures must not reach the tool provider")
}

func TestRunReportsMissingTool(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{ToolNames: []string{"translate"}}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{
		"file_path":   "x.jpg",
		"locale_hint": "ara",
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeToolUnavailable, resp.Error.Code)
}

func TestRunReportsMalformedOCRReply(t *testing.T) {
	t.Parallel()

	session := &agenttest.Session{
		ToolNames: []string{"ocr", "detect_language"},
		Replies: map[string]map[string]any{
			"ocr": {"metadata": map[string]any{}},
		},
	}
	srv := newTestServer(t, session)

	resp := agenttest.Post(t, srv.URL, "run", map[string]any{
		"file_path":   "x.jpg",
		"locale_hint": "ara",
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeMalformedToolReply, resp.Error.Code)
	require.Len(t, session.Calls, 1, "detection must not run after a bad OCR reply")
}
