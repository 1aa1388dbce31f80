package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medpass/medpass/internal/logging"
	"github.com/medpass/medpass/internal/wire"
)

// DefaultTargetLang is the clinic working language when none is requested.
const DefaultTargetLang = "en"

const defaultTitle = "Medical Passport Referral"

// Stage names used for error attribution.
const (
	StageIntake      = "intake"
	StageTranslation = "translation"
	StageStructuring = "structuring"
	StageSummarizer  = "summarizer"
	StageReferral    = "referral"
)

// StageError attributes a workflow failure to the stage that caused it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Input is one workflow request.
type Input struct {
	ImagePath  string
	LocaleHint string
	TargetLang string
}

// Result carries everything a completed workflow produced. SummaryEN and
// RisksEN hold the clinic-language material; the wire keys keep the historical
// names regardless of the configured target language.
type Result struct {
	PDFPath        string
	TXTPath        string
	PatientLang    string
	ClinicalRecord map[string]any
	SummaryEN      string
	RisksEN        []string
	FinalMessage   string
}

// Payload shapes the result as the orchestrate reply payload.
func (r *Result) Payload() map[string]any {
	return map[string]any{
		"pdf_path":        r.PDFPath,
		"txt_path":        r.TXTPath,
		"patient_lang":    r.PatientLang,
		"clinical_record": r.ClinicalRecord,
		"summary_en":      r.SummaryEN,
		"risks_en":        r.RisksEN,
		"final_message":   r.FinalMessage,
	}
}

// Pipeline sequences the five stage agents for one workflow execution. State
// accumulates locally inside Run; a Pipeline itself holds no per-workflow
// state and is safe to reuse.
type Pipeline struct {
	client    *Client
	addrs     Addresses
	fontsDir  string
	outputDir string
	log       zerolog.Logger
}

// NewPipeline builds a pipeline over the given agent addresses.
func NewPipeline(client *Client, addrs Addresses, fontsDir, outputDir string) *Pipeline {
	if fontsDir == "" {
		fontsDir = "data/fonts"
	}
	if outputDir == "" {
		outputDir = "data/outputs"
	}
	return &Pipeline{
		client:    client,
		addrs:     addrs,
		fontsDir:  fontsDir,
		outputDir: outputDir,
		log:       logging.Component("pipeline"),
	}
}

// Run executes the workflow: intake, translation to the working language,
// structuring, summarization, patient-language re-translation when the
// detected language differs from the target, and packet rendering. Any stage
// failure aborts the run; no artifacts are written past the failing stage.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if in.TargetLang == "" {
		in.TargetLang = DefaultTargetLang
	}
	start := time.Now()
	log := p.log.With().Str("run_id", uuid.NewString()).Logger()
	log.Info().
		Str("image", in.ImagePath).
		Str("locale_hint", in.LocaleHint).
		Str("target_lang", in.TargetLang).
		Msg("workflow started")

	// Intake: OCR plus language detection.
	intakeOut, err := p.send(ctx, StageIntake, p.addrs.Intake, map[string]any{
		"file_path":   in.ImagePath,
		"locale_hint": in.LocaleHint,
	})
	if err != nil {
		return nil, err
	}
	rawText, err := stageString(StageIntake, intakeOut, "text")
	if err != nil {
		return nil, err
	}
	patientLang, err := stageString(StageIntake, intakeOut, "patient_lang")
	if err != nil {
		return nil, err
	}
	log.Info().Str("patient_lang", patientLang).Int("text_chars", len(rawText)).Msg("intake complete")

	// Translate the note into the clinic working language.
	trOut, err := p.send(ctx, StageTranslation, p.addrs.Translation, map[string]any{
		"text":          rawText,
		"target_locale": in.TargetLang,
	})
	if err != nil {
		return nil, err
	}
	workingText, err := stageString(StageTranslation, trOut, "text")
	if err != nil {
		return nil, err
	}

	// Structure the working text into a clinical record.
	structOut, err := p.send(ctx, StageStructuring, p.addrs.Structuring, map[string]any{
		"text": workingText,
	})
	if err != nil {
		return nil, err
	}
	clinicalRecord, err := stageMap(StageStructuring, structOut, "clinical_record")
	if err != nil {
		return nil, err
	}

	// Summarize with risk flags, clinic language.
	sumOut, err := p.send(ctx, StageSummarizer, p.addrs.Summarizer, map[string]any{
		"text":            workingText,
		"clinical_record": clinicalRecord,
	})
	if err != nil {
		return nil, err
	}
	summaryClinic, err := stageString(StageSummarizer, sumOut, "summary")
	if err != nil {
		return nil, err
	}
	risksClinic, err := stageStringList(StageSummarizer, sumOut, "risks")
	if err != nil {
		return nil, err
	}

	// Patient-facing re-translation, skipped when the detected language
	// already is the working language.
	summaryPatient := summaryClinic
	risksPatient := risksClinic
	if patientLang != "" && patientLang != in.TargetLang {
		log.Info().Str("patient_lang", patientLang).Int("risks", len(risksClinic)).Msg("re-translating for patient")
		summaryPatient, risksPatient, err = p.translateForPatient(ctx, patientLang, summaryClinic, risksClinic)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info().Str("patient_lang", patientLang).Msg("patient language matches target, reusing clinic summary")
	}

	// Render the bilingual packet.
	refOut, err := p.send(ctx, StageReferral, p.addrs.Referral, map[string]any{
		"clinical_record":  clinicalRecord,
		"summary_clinic":   summaryClinic,
		"summary_patient":  summaryPatient,
		"risks_clinic":     risksClinic,
		"risks_patient":    risksPatient,
		"output_directory": p.outputDir,
		"title":            defaultTitle,
		"clinic_font":      ResolveFont(p.fontsDir, in.TargetLang),
		"patient_font":     ResolveFont(p.fontsDir, patientLang),
	})
	if err != nil {
		return nil, err
	}
	pdfPath, err := stageString(StageReferral, refOut, "pdf_path")
	if err != nil {
		return nil, err
	}
	txtPath, err := stageString(StageReferral, refOut, "txt_path")
	if err != nil {
		return nil, err
	}
	log.Info().Str("pdf", pdfPath).Str("txt", txtPath).Dur("duration", time.Since(start)).Msg("workflow complete")

	return &Result{
		PDFPath:        pdfPath,
		TXTPath:        txtPath,
		PatientLang:    patientLang,
		ClinicalRecord: clinicalRecord,
		SummaryEN:      summaryClinic,
		RisksEN:        risksClinic,
		FinalMessage: fmt.Sprintf("PDF → %s  |  TXT → %s  |  Patient language: %s",
			pdfPath, txtPath, patientLang),
	}, nil
}

// translateForPatient translates the summary and then each risk individually,
// preserving the risk order and count.
func (p *Pipeline) translateForPatient(ctx context.Context, patientLang, summary string, risks []string) (string, []string, error) {
	sumOut, err := p.send(ctx, StageTranslation, p.addrs.Translation, map[string]any{
		"text":          summary,
		"target_locale": patientLang,
	})
	if err != nil {
		return "", nil, err
	}
	patientSummary, err := stageString(StageTranslation, sumOut, "text")
	if err != nil {
		return "", nil, err
	}

	patientRisks := make([]string, 0, len(risks))
	for _, risk := range risks {
		riskOut, err := p.send(ctx, StageTranslation, p.addrs.Translation, map[string]any{
			"text":          risk,
			"target_locale": patientLang,
		})
		if err != nil {
			return "", nil, err
		}
		translated, err := stageString(StageTranslation, riskOut, "text")
		if err != nil {
			return "", nil, err
		}
		patientRisks = append(patientRisks, translated)
	}
	return patientSummary, patientRisks, nil
}

// send posts one run invocation to a stage agent, attributing any failure to
// the stage.
func (p *Pipeline) send(ctx context.Context, stage, baseURL string, payload map[string]any) (map[string]any, error) {
	p.log.Debug().Str("stage", stage).Str("url", baseURL).Msg("calling stage agent")
	reply, err := p.client.Send(ctx, baseURL, "run", payload)
	if err != nil {
		return nil, &StageError{Stage: stage, Err: err}
	}
	return reply, nil
}

// A reply missing its contractual key fails the stage rather than defaulting.
func stageString(stage string, reply map[string]any, key string) (string, error) {
	s, err := wire.String(reply, key)
	if err != nil {
		return "", &StageError{Stage: stage, Err: fmt.Errorf("reply: %w", err)}
	}
	return s, nil
}

func stageStringList(stage string, reply map[string]any, key string) ([]string, error) {
	list, err := wire.StringList(reply, key)
	if err != nil {
		return nil, &StageError{Stage: stage, Err: fmt.Errorf("reply: %w", err)}
	}
	return list, nil
}

func stageMap(stage string, reply map[string]any, key string) (map[string]any, error) {
	m, err := wire.Map(reply, key)
	if err != nil {
		return nil, &StageError{Stage: stage, Err: fmt.Errorf("reply: %w", err)}
	}
	return m, nil
}
