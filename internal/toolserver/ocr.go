package toolserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/medpass/medpass/internal/tools/lang"
	"github.com/medpass/medpass/internal/tools/ocr"
)

type ocrArgs struct {
	FilePath   string `json:"file_path"`
	LocaleHint string `json:"locale_hint"`
}

type ocrMetadata struct {
	Source   string `json:"source"`
	UsedLang string `json:"used_lang"`
}

type ocrReply struct {
	Text     string      `json:"text"`
	Metadata ocrMetadata `json:"metadata"`
}

func (s *Server) handleOCR(ctx context.Context, _ *mcp.CallToolRequest, args ocrArgs) (*mcp.CallToolResult, ocrReply, error) {
	usedLang := strings.TrimSpace(args.LocaleHint)
	if usedLang == "" {
		return nil, ocrReply{}, errors.New(`locale_hint is required and must be an engine language code (e.g. "eng", "ara")`)
	}

	s.log.Debug().Str("tool", "ocr").Str("file", args.FilePath).Str("lang", usedLang).Msg("tool call")
	res, err := s.ocr.Recognize(ctx, ocr.Input{Path: args.FilePath, Language: usedLang})
	if err != nil {
		return nil, ocrReply{}, fmt.Errorf("ocr: %w", err)
	}
	return nil, ocrReply{
		Text:     res.Text,
		Metadata: ocrMetadata{Source: args.FilePath, UsedLang: res.Language},
	}, nil
}

type detectArgs struct {
	Text string `json:"text"`
}

type alternate struct {
	Lang string  `json:"lang"`
	Prob float64 `json:"prob"`
}

type detectReply struct {
	Lang       string      `json:"lang"`
	Confidence float64     `json:"confidence"`
	Alternates []alternate `json:"alternates"`
}

func (s *Server) handleDetectLanguage(_ context.Context, _ *mcp.CallToolRequest, args detectArgs) (*mcp.CallToolResult, detectReply, error) {
	det := lang.Detect(args.Text)
	alts := make([]alternate, 0, len(det.Alternates))
	for _, a := range det.Alternates {
		alts = append(alts, alternate{Lang: a.Lang, Prob: a.Prob})
	}
	s.log.Debug().Str("tool", "detect_language").Str("lang", det.Lang).Msg("tool call")
	return nil, detectReply{Lang: det.Lang, Confidence: det.Confidence, Alternates: alts}, nil
}
