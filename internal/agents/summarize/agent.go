// Package summarize hosts the summarizer stage agent: clinician-facing
// summary plus ordered risk flags from raw text and/or a clinical record.
package summarize

import (
	"context"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/wire"
)

type stage struct {
	tools agent.Toolbox
}

// New builds the summarizer agent server on the given tool session.
func New(url string, session agent.ToolSession) *agent.Server {
	s := &stage{tools: agent.Toolbox{Session: session}}
	card := agent.NewCard(
		"Summarizer Agent",
		"Produces a clinician-facing summary and risk flags from raw text and/or a clinical record",
		url,
		agent.Skill{
			ID:          "run",
			Name:        "run",
			Description: "Summarize and flag risks given clinical text and/or a clinical record",
			Tags:        []string{"summary", "risk", "handoff", "llm"},
		},
	)
	return agent.NewServer(card, map[string]agent.HandlerFunc{"run": s.run})
}

func (s *stage) run(ctx context.Context, payload map[string]any) (map[string]any, error) {
	args := map[string]any{}
	if _, ok := payload["text"]; ok {
		text, err := wire.String(payload, "text")
		if err != nil {
			return nil, agent.InvalidRequest("%v", err)
		}
		if text != "" {
			args["text"] = text
		}
	}
	if _, ok := payload["clinical_record"]; ok {
		clinicalRecord, err := wire.Map(payload, "clinical_record")
		if err != nil {
			return nil, agent.InvalidRequest("%v", err)
		}
		args["clinical_record"] = clinicalRecord
	}
	if len(args) == 0 {
		return nil, agent.InvalidRequest("at least one of %q or %q is required", "text", "clinical_record")
	}

	reply, err := s.tools.Call(ctx, "summarize_with_risks", args)
	if err != nil {
		return nil, err
	}
	summary, err := agent.ReplyString(reply, "summary")
	if err != nil {
		return nil, err
	}
	risks, err := agent.ReplyStringList(reply, "risks")
	if err != nil {
		return nil, err
	}

	return map[string]any{"summary": summary, "risks": risks}, nil
}
