// Package structure hosts the structuring stage agent: narrative clinical
// text in, minimal FHIR-like bundle out.
package structure

import (
	"context"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/wire"
)

type stage struct {
	tools agent.Toolbox
}

// New builds the structuring agent server on the given tool session.
func New(url string, session agent.ToolSession) *agent.Server {
	s := &stage{tools: agent.Toolbox{Session: session}}
	card := agent.NewCard(
		"Structuring Agent",
		"Maps narrative clinical text into a minimal FHIR-like bundle",
		url,
		agent.Skill{
			ID:          "run",
			Name:        "run",
			Description: "Convert clinical narrative text to a minimal FHIR-like bundle",
			Tags:        []string{"structuring", "fhir", "llm"},
		},
	)
	return agent.NewServer(card, map[string]agent.HandlerFunc{"run": s.run})
}

func (s *stage) run(ctx context.Context, payload map[string]any) (map[string]any, error) {
	text, err := wire.String(payload, "text")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	meta := map[string]any{}
	if _, ok := payload["patient_meta"]; ok {
		meta, err = wire.Map(payload, "patient_meta")
		if err != nil {
			return nil, agent.InvalidRequest("%v", err)
		}
	}

	reply, err := s.tools.Call(ctx, "structure_to_record", map[string]any{
		"text":         text,
		"patient_meta": meta,
	})
	if err != nil {
		return nil, err
	}
	clinicalRecord, err := agent.ReplyMap(reply, "clinical_record")
	if err != nil {
		return nil, err
	}

	return map[string]any{"clinical_record": clinicalRecord}, nil
}
