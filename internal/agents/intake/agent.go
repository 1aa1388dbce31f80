// Package intake hosts the intake stage agent: OCR on the scanned note,
// followed by language detection on the recognized text.
package intake

import (
	"context"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/wire"
)

type stage struct {
	tools agent.Toolbox
}

// New builds the intake agent server on the given tool session.
func New(url string, session agent.ToolSession) *agent.Server {
	s := &stage{tools: agent.Toolbox{Session: session}}
	card := agent.NewCard(
		"Intake Agent",
		"Performs OCR and language detection",
		url,
		agent.Skill{
			ID:          "run",
			Name:        "run",
			Description: "Perform OCR and language detection",
			Tags:        []string{"intake", "ocr", "language"},
		},
	)
	return agent.NewServer(card, map[string]agent.HandlerFunc{"run": s.run})
}

func (s *stage) run(ctx context.Context, payload map[string]any) (map[string]any, error) {
	filePath, err := wire.String(payload, "file_path")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	localeHint, err := wire.String(payload, "locale_hint")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}

	ocrReply, err := s.tools.Call(ctx, "ocr", map[string]any{
		"file_path":   filePath,
		"locale_hint": localeHint,
	})
	if err != nil {
		return nil, err
	}
	text, err := agent.ReplyString(ocrReply, "text")
	if err != nil {
		return nil, err
	}

	detReply, err := s.tools.Call(ctx, "detect_language", map[string]any{"text": text})
	if err != nil {
		return nil, err
	}
	patientLang, err := agent.ReplyString(detReply, "lang")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"text":         text,
		"patient_lang": patientLang,
		"metadata": map[string]any{
			"source":      filePath,
			"locale_hint": localeHint,
		},
	}, nil
}
