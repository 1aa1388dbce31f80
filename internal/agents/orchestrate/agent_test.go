package orchestrate

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/agent/agenttest"
	"github.com/medpass/medpass/internal/orchestrator"
	"github.com/medpass/medpass/internal/wire"
)

func stageServer(t *testing.T, name string, handler agent.HandlerFunc) string {
	t.Helper()
	card := agent.NewCard(name, name, "", agent.Skill{ID: "run", Name: "run"})
	srv := httptest.NewServer(agent.NewServer(card, map[string]agent.HandlerFunc{"run": handler}).Routes())
	t.Cleanup(srv.Close)
	return srv.URL
}

// workflowAddresses wires a minimal english-only happy path, with the
// structuring stage swappable for failure scenarios.
func workflowAddresses(t *testing.T, structure agent.HandlerFunc) orchestrator.Addresses {
	t.Helper()
	if structure == nil {
		structure = func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{"clinical_record": map[string]any{
				"resourceType": "Bundle", "type": "collection", "entry": []any{},
			}}, nil
		}
	}
	return orchestrator.Addresses{
		Intake: stageServer(t, "Intake Agent", func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{"text": "note", "patient_lang": "en"}, nil
		}),
		Translation: stageServer(t, "Translation Agent", func(_ context.Context, payload map[string]any) (map[string]any, error) {
			return map[string]any{"text": payload["text"], "source_locale": "en"}, nil
		}),
		Structuring: stageServer(t, "Structuring Agent", structure),
		Summarizer: stageServer(t, "Summarizer Agent", func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return map[string]any{"summary": "Stable.", "risks": []any{"Follow-up"}}, nil
		}),
		Referral: stageServer(t, "Referral Packet Agent", func(_ context.Context, payload map[string]any) (map[string]any, error) {
			dir, _ := payload["output_directory"].(string)
			return map[string]any{
				"pdf_path": filepath.Join(dir, "referral-20250101-000000.pdf"),
				"txt_path": filepath.Join(dir, "referral-20250101-000000.txt"),
			}, nil
		}),
	}
}

func newTestServer(t *testing.T, addrs orchestrator.Addresses, outDir string) *httptest.Server {
	t.Helper()
	pipeline := orchestrator.NewPipeline(orchestrator.NewClient(5*time.Second), addrs, "data/fonts", outDir)
	srv := httptest.NewServer(New("http://localhost:41246/", pipeline).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestOrchestrateRunsWorkflow(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	srv := newTestServer(t, workflowAddresses(t, nil), outDir)

	resp := agenttest.Post(t, srv.URL, "orchestrate", map[string]any{
		"image_path":  "data/samples/note_ar.jpg",
		"locale_hint": "ara",
	})
	require.Nil(t, resp.Error)

	assert.Equal(t, "en", resp.Payload["patient_lang"])
	assert.Equal(t, "Stable.", resp.Payload["summary_en"])
	assert.Equal(t, []any{"Follow-up"}, resp.Payload["risks_en"])

	pdfPath, _ := resp.Payload["pdf_path"].(string)
	txtPath, _ := resp.Payload["txt_path"].(string)
	assert.Equal(t, outDir, filepath.Dir(pdfPath))
	assert.Contains(t, resp.Payload["final_message"], pdfPath)
	assert.Contains(t, resp.Payload["final_message"], txtPath)
	assert.Contains(t, resp.Payload["final_message"], "Patient language: en")

	record, _ := resp.Payload["clinical_record"].(map[string]any)
	assert.Equal(t, "Bundle", record["resourceType"])
}

func TestOrchestrateRejectsMissingInput(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, workflowAddresses(t, nil), t.TempDir())

	resp := agenttest.Post(t, srv.URL, "orchestrate", map[string]any{"locale_hint": "ara"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeInvalidRequest, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "image_path")
}

func TestOrchestrateRejectsBadTargetType(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, workflowAddresses(t, nil), t.TempDir())

	resp := agenttest.Post(t, srv.URL, "orchestrate", map[string]any{
		"image_path":          "note.jpg",
		"locale_hint":         "ara",
		"patient_lang_target": 7,
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeInvalidRequest, resp.Error.Code)
}

func TestOrchestrateAttributesUpstreamFailure(t *testing.T) {
	t.Parallel()

	failing := func(_ context.Context, _ map[string]any) (map[string]any, error) {
		return nil, errors.New("model unavailable")
	}
	srv := newTestServer(t, workflowAddresses(t, failing), t.TempDir())

	resp := agenttest.Post(t, srv.URL, "orchestrate", map[string]any{
		"image_path":  "note.jpg",
		"locale_hint": "ara",
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, wire.CodeUpstreamStageError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "structuring stage")

	detail, _ := resp.Error.Detail.(map[string]any)
	assert.Equal(t, "structuring", detail["stage"])
}
