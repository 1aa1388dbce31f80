package toolserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/medpass/medpass/internal/tools/render"
)

type renderArgs struct {
	ClinicalRecord  map[string]any `json:"clinical_record"`
	SummaryClinic   string         `json:"summary_clinic"`
	SummaryPatient  string         `json:"summary_patient"`
	RisksClinic     []string       `json:"risks_clinic"`
	RisksPatient    []string       `json:"risks_patient"`
	OutputDirectory string         `json:"output_directory,omitempty"`
	Title           string         `json:"title,omitempty"`
	ClinicFont      string         `json:"clinic_font,omitempty"`
	PatientFont     string         `json:"patient_font,omitempty"`
}

type renderReply struct {
	PDFPath        string   `json:"pdf_path"`
	TXTPath        string   `json:"txt_path"`
	SummaryClinic  string   `json:"summary_clinic"`
	SummaryPatient string   `json:"summary_patient"`
	RisksClinic    []string `json:"risks_clinic"`
	RisksPatient   []string `json:"risks_patient"`
}

func (s *Server) handleRenderPacket(_ context.Context, _ *mcp.CallToolRequest, args renderArgs) (*mcp.CallToolResult, renderReply, error) {
	s.log.Debug().Str("tool", "render_packet").Str("output_dir", args.OutputDirectory).Msg("tool call")
	res, err := render.RenderPacket(render.PacketInput{
		Record:         args.ClinicalRecord,
		SummaryClinic:  args.SummaryClinic,
		SummaryPatient: args.SummaryPatient,
		RisksClinic:    args.RisksClinic,
		RisksPatient:   args.RisksPatient,
		OutputDir:      args.OutputDirectory,
		Title:          args.Title,
		ClinicFont:     args.ClinicFont,
		PatientFont:    args.PatientFont,
	})
	if err != nil {
		return nil, renderReply{}, fmt.Errorf("render packet: %w", err)
	}
	return nil, renderReply{
		PDFPath:        res.PDFPath,
		TXTPath:        res.TXTPath,
		SummaryClinic:  res.SummaryClinic,
		SummaryPatient: res.SummaryPatient,
		RisksClinic:    res.RisksClinic,
		RisksPatient:   res.RisksPatient,
	}, nil
}
