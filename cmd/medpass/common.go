package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/medpass/medpass/internal/orchestrator"
	"github.com/medpass/medpass/internal/supervise"
)

// workflowTimeout bounds the single orchestrate call. The slow path is one
// OCR pass plus 3+R model calls, so this is far above any healthy run.
const workflowTimeout = 240 * time.Second

// runWorkflow resolves the orchestrator's card and runs one workflow for the
// given image, returning the reply payload.
func runWorkflow(ctx context.Context, addrs orchestrator.Addresses, image, locale, target string) (map[string]any, error) {
	client := orchestrator.NewClient(workflowTimeout)
	card, err := client.FetchCard(ctx, addrs.Orchestrator)
	if err != nil {
		return nil, fmt.Errorf("resolve orchestrator card: %w", err)
	}
	if !card.HasSkill("orchestrate") {
		return nil, fmt.Errorf("agent %q does not advertise the orchestrate skill", card.Name)
	}
	return client.Send(ctx, addrs.Orchestrator, "orchestrate", map[string]any{
		"image_path":          image,
		"locale_hint":         locale,
		"patient_lang_target": target,
	})
}

// printJSON writes v as indented JSON, keeping non-ASCII text readable
// rather than escaping it.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// agentSpecs describes the six agent processes in startup order. The
// orchestrator comes last so every stage it dials is already serving.
func agentSpecs(addrs orchestrator.Addresses) []supervise.Spec {
	stages := []struct {
		name string
		port int
		url  string
	}{
		{"intake", orchestrator.PortIntake, addrs.Intake},
		{"translate", orchestrator.PortTranslation, addrs.Translation},
		{"structure", orchestrator.PortStructuring, addrs.Structuring},
		{"summarize", orchestrator.PortSummarizer, addrs.Summarizer},
		{"referral", orchestrator.PortReferral, addrs.Referral},
		{"orchestrate", orchestrator.PortOrchestrator, addrs.Orchestrator},
	}

	specs := make([]supervise.Spec, 0, len(stages))
	for _, st := range stages {
		args := []string{"agent", st.name, "--port", strconv.Itoa(st.port), "--config", cfgFile}
		if debug {
			args = append(args, "--debug")
		}
		specs = append(specs, supervise.Spec{Name: st.name, Port: st.port, URL: st.url, Args: args})
	}
	return specs
}
