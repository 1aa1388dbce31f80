package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/medpass/medpass/internal/record"
	"github.com/medpass/medpass/internal/tools/lang"
	"github.com/medpass/medpass/internal/tools/llm"
)

func (s *Server) requireLLM() error {
	if s.llm == nil {
		return errors.New("no llm provider is configured; this tool requires one (set OPENAI_API_KEY or GEMINI_API_KEY)")
	}
	return nil
}

type translateArgs struct {
	Text         string `json:"text"`
	TargetLocale string `json:"target_locale"`
}

type translateReply struct {
	Text         string `json:"text"`
	SourceLocale string `json:"source_locale"`
}

func (s *Server) handleTranslate(ctx context.Context, _ *mcp.CallToolRequest, args translateArgs) (*mcp.CallToolResult, translateReply, error) {
	if err := s.requireLLM(); err != nil {
		return nil, translateReply{}, err
	}
	if strings.TrimSpace(args.TargetLocale) == "" {
		return nil, translateReply{}, errors.New("target_locale is required")
	}

	s.log.Debug().Str("tool", "translate").Str("target", args.TargetLocale).Int("chars", len(args.Text)).Msg("tool call")
	translated, err := s.llm.Complete(ctx, llm.Request{
		Instructions: llm.TranslateInstructions(),
		Input:        fmt.Sprintf("Target language: %s\n\n---\n%s", args.TargetLocale, args.Text),
	})
	if err != nil {
		return nil, translateReply{}, fmt.Errorf("translate: %w", err)
	}
	return nil, translateReply{
		Text:         strings.TrimSpace(translated),
		SourceLocale: lang.Detect(args.Text).Lang,
	}, nil
}

type structureArgs struct {
	Text        string         `json:"text"`
	PatientMeta map[string]any `json:"patient_meta,omitempty"`
}

type structureReply struct {
	ClinicalRecord map[string]any `json:"clinical_record"`
}

func (s *Server) handleStructure(ctx context.Context, _ *mcp.CallToolRequest, args structureArgs) (*mcp.CallToolResult, structureReply, error) {
	if err := s.requireLLM(); err != nil {
		return nil, structureReply{}, err
	}

	input := args.Text
	if len(args.PatientMeta) > 0 {
		meta, err := json.Marshal(args.PatientMeta)
		if err != nil {
			return nil, structureReply{}, fmt.Errorf("encode patient_meta: %w", err)
		}
		input = fmt.Sprintf("%s\n\nPATIENT METADATA:\n%s", args.Text, meta)
	}

	s.log.Debug().Str("tool", "structure_to_record").Int("chars", len(args.Text)).Msg("tool call")
	raw, err := s.llm.Complete(ctx, llm.Request{
		Instructions: llm.StructureInstructions(),
		Input:        input,
	})
	if err != nil {
		return nil, structureReply{}, fmt.Errorf("structure: %w", err)
	}

	bundle, err := extractJSON(raw)
	if err != nil {
		return nil, structureReply{}, fmt.Errorf("model did not return a valid JSON bundle: %w", err)
	}
	if err := record.Validate(bundle); err != nil {
		return nil, structureReply{}, fmt.Errorf("clinical record: %w", err)
	}
	return nil, structureReply{ClinicalRecord: bundle}, nil
}

type summarizeArgs struct {
	Text           string         `json:"text,omitempty"`
	ClinicalRecord map[string]any `json:"clinical_record,omitempty"`
}

type summarizeReply struct {
	Summary string   `json:"summary"`
	Risks   []string `json:"risks"`
}

func (s *Server) handleSummarize(ctx context.Context, _ *mcp.CallToolRequest, args summarizeArgs) (*mcp.CallToolResult, summarizeReply, error) {
	if err := s.requireLLM(); err != nil {
		return nil, summarizeReply{}, err
	}
	if strings.TrimSpace(args.Text) == "" && len(args.ClinicalRecord) == 0 {
		return nil, summarizeReply{}, errors.New("at least one of text or clinical_record is required")
	}

	bundleJSON := ""
	if len(args.ClinicalRecord) > 0 {
		data, err := json.MarshalIndent(args.ClinicalRecord, "", "  ")
		if err != nil {
			return nil, summarizeReply{}, fmt.Errorf("encode clinical_record: %w", err)
		}
		bundleJSON = string(data)
	}

	s.log.Debug().Str("tool", "summarize_with_risks").Int("chars", len(args.Text)).Msg("tool call")
	result, err := s.llm.Complete(ctx, llm.Request{
		Instructions: llm.SummarizeInstructions(),
		Input:        fmt.Sprintf("TEXT:\n%s\n\nBUNDLE:\n%s", strings.TrimSpace(args.Text), bundleJSON),
	})
	if err != nil {
		return nil, summarizeReply{}, fmt.Errorf("summarize: %w", err)
	}

	summary, risks := splitSummaryRisks(result)
	return nil, summarizeReply{Summary: summary, Risks: risks}, nil
}

// extractJSON pulls the first JSON object out of a model reply, tolerating
// code fences and prose around it.
func extractJSON(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in reply")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// splitSummaryRisks separates a plain-text model reply into the summary and
// its "- " risk bullets. The summary is everything before the first bullet;
// a reply that opens with bullets keeps the whole text as the summary.
func splitSummaryRisks(result string) (string, []string) {
	lines := strings.Split(result, "\n")
	risks := []string{}
	firstBullet := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") {
			if firstBullet < 0 {
				firstBullet = i
			}
			risks = append(risks, strings.TrimSpace(trimmed[2:]))
		}
	}
	if firstBullet < 0 {
		return strings.TrimSpace(result), risks
	}
	summary := strings.TrimSpace(strings.Join(lines[:firstBullet], "\n"))
	if summary == "" {
		summary = strings.TrimSpace(result)
	}
	return summary, risks
}
