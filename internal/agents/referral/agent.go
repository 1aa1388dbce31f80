// Package referral hosts the referral stage agent: it hands the assembled
// summaries, risks, and clinical record to the packet renderer.
package referral

import (
	"context"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/tools/render"
	"github.com/medpass/medpass/internal/wire"
)

// Fallbacks applied when neither the request nor the options name them.
const (
	defaultOutputDir   = "data/outputs"
	defaultClinicFont  = "data/fonts/NotoSans-Regular.ttf"
	defaultPatientFont = "data/fonts/NotoNaskhArabic-Regular.ttf"
)

// Options sets the per-process defaults for requests that omit the
// rendering keys.
type Options struct {
	OutputDir   string
	ClinicFont  string
	PatientFont string
}

type stage struct {
	tools agent.Toolbox
	opts  Options
}

// New builds the referral agent server on the given tool session.
func New(url string, session agent.ToolSession, opts Options) *agent.Server {
	if opts.OutputDir == "" {
		opts.OutputDir = defaultOutputDir
	}
	if opts.ClinicFont == "" {
		opts.ClinicFont = defaultClinicFont
	}
	if opts.PatientFont == "" {
		opts.PatientFont = defaultPatientFont
	}

	s := &stage{tools: agent.Toolbox{Session: session}, opts: opts}
	card := agent.NewCard(
		"Referral Packet Agent",
		"Generates a bilingual referral PDF and TXT",
		url,
		agent.Skill{
			ID:          "run",
			Name:        "run",
			Description: "Create a referral packet (PDF + TXT) from the record, summaries, and risks",
			Tags:        []string{"referral", "pdf", "handoff", "bilingual"},
		},
	)
	return agent.NewServer(card, map[string]agent.HandlerFunc{"run": s.run})
}

func (s *stage) run(ctx context.Context, payload map[string]any) (map[string]any, error) {
	clinicalRecord, err := wire.Map(payload, "clinical_record")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	summaryClinic, err := wire.String(payload, "summary_clinic")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	summaryPatient, err := wire.String(payload, "summary_patient")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	risksClinic, err := wire.StringList(payload, "risks_clinic")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}
	risksPatient, err := wire.StringList(payload, "risks_patient")
	if err != nil {
		return nil, agent.InvalidRequest("%v", err)
	}

	reply, err := s.tools.Call(ctx, "render_packet", map[string]any{
		"clinical_record":  clinicalRecord,
		"summary_clinic":   summaryClinic,
		"summary_patient":  summaryPatient,
		"risks_clinic":     risksClinic,
		"risks_patient":    risksPatient,
		"output_directory": wire.OptionalString(payload, "output_directory", s.opts.OutputDir),
		"clinic_font":      wire.OptionalString(payload, "clinic_font", s.opts.ClinicFont),
		"patient_font":     wire.OptionalString(payload, "patient_font", s.opts.PatientFont),
		"title":            wire.OptionalString(payload, "title", render.DefaultTitle),
	})
	if err != nil {
		return nil, err
	}
	if _, err := agent.ReplyString(reply, "pdf_path"); err != nil {
		return nil, err
	}
	if _, err := agent.ReplyString(reply, "txt_path"); err != nil {
		return nil, err
	}

	return reply, nil
}
