// Package translate hosts the translation stage agent.
package translate

import (
	"context"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/wire"
)

type stage struct {
	tools agent.Toolbox
}

// New builds the translation agent server on the given tool session.
func New(url string, session agent.ToolSession) *agent.Server {
	s := &stage{tools: agent.Toolbox{Session: session}}
	card := agent.NewCard(
		"Translation Agent",
		"Detects source language and translates to a target locale",
		url,
		agent.Skill{
			ID:          "run",
			Name:        "run",
			Description: "Translate text to a target locale",
			Tags:        []string{"translation", "language", "llm"},
		},
	)
	return agent.NewServer(card, map[string]agent.HandlerFunc{"run": s.run})
}

func (s *stage) run(ctx context.Context, payload map[string]any) (map[string]any, error) {
	text, err := wire.String(payload, "text")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	target, err := wire.String(payload, "target_locale")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}

	reply, err := s.tools.Call(ctx, "translate", map[string]any{
		"text":          text,
		"target_locale": target,
	})
	if err != nil {
		return nil, err
	}
	translated, err := agent.ReplyString(reply, "text")
	if err != nil {
		return nil, err
	}
	source, err := agent.ReplyString(reply, "source_locale")
	if err != nil {
		return nil, err
	}

	return map[string]any{"text": translated, "source_locale": source}, nil
}
