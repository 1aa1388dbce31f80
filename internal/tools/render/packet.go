// Package render writes the bilingual referral packet: an A4 PDF with
// embedded TrueType fonts and a plain-text transcript of the same content.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/medpass/medpass/internal/logging"
	"github.com/medpass/medpass/internal/record"
)

// DefaultTitle heads the PDF when the request does not set one.
const DefaultTitle = "Medical Passport Referral"

// PacketInput carries everything needed to lay out one referral packet.
type PacketInput struct {
	Record         map[string]any
	SummaryClinic  string
	SummaryPatient string
	RisksClinic    []string
	RisksPatient   []string
	OutputDir      string
	ClinicFont     string
	PatientFont    string
	Title          string
}

// PacketResult reports where the artifacts landed along with the cleaned
// text that went into them.
type PacketResult struct {
	PDFPath        string
	TXTPath        string
	SummaryClinic  string
	SummaryPatient string
	RisksClinic    []string
	RisksPatient   []string
}

// RenderPacket validates the clinical record, then writes the TXT
// transcript and the PDF side by side. Output filenames carry a UTC
// timestamp: referral-YYYYMMDD-HHMMSS.{pdf,txt}.
func RenderPacket(in PacketInput) (PacketResult, error) {
	bundle, err := record.FromPayload(in.Record)
	if err != nil {
		return PacketResult{}, fmt.Errorf("render packet: %w", err)
	}

	title := in.Title
	if title == "" {
		title = DefaultTitle
	}
	outDir := in.OutputDir
	if outDir == "" {
		outDir = "data/outputs"
	}

	summaryClinic := StripRiskHeadings(in.SummaryClinic)
	summaryPatient := StripRiskHeadings(in.SummaryPatient)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return PacketResult{}, fmt.Errorf("create output dir: %w", err)
	}

	now := time.Now().UTC()
	stamp := now.Format("20060102-150405")
	pdfPath := filepath.Join(outDir, fmt.Sprintf("referral-%s.pdf", stamp))
	txtPath := filepath.Join(outDir, fmt.Sprintf("referral-%s.txt", stamp))

	txt, err := transcript(in, summaryClinic, summaryPatient, bundle)
	if err != nil {
		return PacketResult{}, err
	}
	if err := os.WriteFile(txtPath, txt, 0o644); err != nil {
		return PacketResult{}, fmt.Errorf("write transcript: %w", err)
	}

	doc := newPDF(title, loadFont(in.ClinicFont), loadFont(in.PatientFont), now)
	doc.header()

	doc.heading("Clinical Summary", doc.clinic)
	doc.paragraph(summaryClinic, doc.clinic)
	if len(in.RisksClinic) > 0 {
		doc.heading("Key Risks", doc.clinic)
		doc.bullets(in.RisksClinic, doc.clinic)
	}
	doc.rule()

	doc.heading("Patient Summary", doc.patient)
	doc.paragraph(summaryPatient, doc.patient)
	if len(in.RisksPatient) > 0 {
		doc.heading("Key Risks", doc.patient)
		doc.bullets(in.RisksPatient, doc.patient)
	}
	doc.rule()

	if bullets := bundle.Bullets(); len(bullets) > 0 {
		doc.heading("Structured Clinical Data", doc.clinic)
		doc.bullets(bullets, doc.clinic)
	}

	pdf, err := doc.Bytes()
	if err != nil {
		return PacketResult{}, fmt.Errorf("assemble pdf: %w", err)
	}
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return PacketResult{}, fmt.Errorf("write pdf: %w", err)
	}

	return PacketResult{
		PDFPath:        pdfPath,
		TXTPath:        txtPath,
		SummaryClinic:  summaryClinic,
		SummaryPatient: summaryPatient,
		RisksClinic:    in.RisksClinic,
		RisksPatient:   in.RisksPatient,
	}, nil
}

// loadFont loads a TTF for embedding. A missing or unshapeable font file
// degrades to the built-in core font rather than failing the packet.
func loadFont(path string) *TTF {
	if path == "" {
		return nil
	}
	t, err := LoadTTF(path)
	if err != nil {
		lg := logging.Component("render")
		lg.Warn().Err(err).Str("font", path).Msg("falling back to core font")
		return nil
	}
	if _, err := shapeLine(t.Data, "x"); err != nil {
		lg := logging.Component("render")
		lg.Warn().Err(err).Str("font", path).Msg("font not shapeable, falling back to core font")
		return nil
	}
	return t
}
