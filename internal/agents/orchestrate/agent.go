// Package orchestrate hosts the orchestrator agent: the single entry point
// that runs a scanned note through every stage and returns the packet paths.
package orchestrate

import (
	"context"
	"errors"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/orchestrator"
	"github.com/medpass/medpass/internal/wire"
)

type stage struct {
	pipeline *orchestrator.Pipeline
}

// New builds the orchestrator agent server around a workflow pipeline.
func New(url string, pipeline *orchestrator.Pipeline) *agent.Server {
	s := &stage{pipeline: pipeline}
	card := agent.NewCard(
		"Orchestrator Agent",
		"Coordinates intake, translation, structuring, summarization, and referral rendering",
		url,
		agent.Skill{
			ID:          "orchestrate",
			Name:        "orchestrate",
			Description: "Run the end-to-end workflow and return the referral packet paths",
			Tags:        []string{"orchestrator", "workflow", "handoff"},
		},
	)
	return agent.NewServer(card, map[string]agent.HandlerFunc{"orchestrate": s.orchestrate})
}

func (s *stage) orchestrate(ctx context.Context, payload map[string]any) (map[string]any, error) {
	imagePath, err := wire.String(payload, "image_path")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	localeHint, err := wire.String(payload, "locale_hint")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	target := orchestrator.DefaultTargetLang
	if _, ok := payload["patient_lang_target"]; ok {
		if target, err = wire.String(payload, "patient_lang_target"); err != nil {
			return nil, agent.InvalidRequest("%v", err)
		}
	}

	res, err := s.pipeline.Run(ctx, orchestrator.Input{
		ImagePath:  imagePath,
		LocaleHint: localeHint,
		TargetLang: target,
	})
	if err != nil {
		var stageErr *orchestrator.StageError
		if errors.As(err, &stageErr) {
			return nil, &agent.Error{
				Code:    wire.CodeUpstreamStageError,
				Message: stageErr.Error(),
				Detail:  map[string]any{"stage": stageErr.Stage},
			}
		}
		return nil, err
	}
	return res.Payload(), nil
}
