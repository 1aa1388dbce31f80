// Package toolserver exposes the pipeline's six tools over MCP on stdio:
// ocr, detect_language, translate, structure_to_record, summarize_with_risks,
// and render_packet. Stage agents spawn this server as a subprocess and hold
// one session each for their process lifetime.
package toolserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/medpass/medpass/internal/logging"
	"github.com/medpass/medpass/internal/tools/llm"
	"github.com/medpass/medpass/internal/tools/ocr"
)

const (
	serverName    = "medpass-tools"
	serverVersion = "1.0.0"
)

// Options selects the tool backends.
type Options struct {
	// OCR recognizes scanned notes. Required.
	OCR ocr.Engine
	// LLM backs translate, structure_to_record, and summarize_with_risks.
	// May be nil; those three tools then fail per call with a configuration
	// error while the rest keep working.
	LLM llm.Provider
}

// Server hosts the tool handlers.
type Server struct {
	ocr ocr.Engine
	llm llm.Provider
	log zerolog.Logger
}

// New builds a tool server over the given backends.
func New(opts Options) *Server {
	return &Server{
		ocr: opts.OCR,
		llm: opts.LLM,
		log: logging.Component("toolserver"),
	}
}

// MCPServer assembles the MCP server with every tool registered.
func (s *Server) MCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "ocr",
		Description: "Run OCR on an image file. locale_hint is required and is passed to the engine unchanged (e.g. \"eng\", \"ara\").",
	}, s.handleOCR)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "detect_language",
		Description: "Detect the dominant language of a text.",
	}, s.handleDetectLanguage)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "translate",
		Description: "Translate text to a target locale. Returns only the translated text plus the detected source locale.",
	}, s.handleTranslate)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "structure_to_record",
		Description: "Map narrative clinical text into a minimal FHIR-like bundle. Returns strict, schema-validated JSON.",
	}, s.handleStructure)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "summarize_with_risks",
		Description: "Summarize clinical material for a handoff and flag key risks as a list.",
	}, s.handleSummarize)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "render_packet",
		Description: "Render the bilingual referral packet (PDF and TXT) from a clinical record, two summaries, and two risk lists.",
	}, s.handleRenderPacket)

	return srv
}

// Run serves tools on stdio until ctx ends or the peer disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Str("ocr_engine", s.ocr.Name()).Bool("llm", s.llm != nil).Msg("tool server listening on stdio")
	return s.MCPServer().Run(ctx, &mcp.StdioTransport{})
}
