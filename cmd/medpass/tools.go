package main

import (
	"context"
	"time"

	"github.com/medpass/medpass/internal/config"
	"github.com/medpass/medpass/internal/logging"
	"github.com/medpass/medpass/internal/tools/llm"
	"github.com/medpass/medpass/internal/tools/ocr"
	"github.com/medpass/medpass/internal/toolserver"
	"github.com/spf13/cobra"
)

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tools",
		Short:        "Run the MCP tool server on stdio",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runTools(cmd.Context(), cfg)
		},
	}
	return cmd
}

func runTools(ctx context.Context, cfg config.Config) error {
	var engine ocr.Engine = ocr.TextFile{}
	if cfg.OCR.Enabled {
		engine = ocr.NewTesseract()
	}

	// A missing key only disables the model-backed tools; ocr, detection,
	// and rendering still work, so the server starts regardless.
	provider, err := llm.New(ctx, llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Timeout:   time.Duration(cfg.LLM.TimeoutSec) * time.Second,
	}, nil)
	if err != nil {
		lg := logging.Component("tools")
		lg.Warn().Err(err).Msg("llm provider unavailable, model tools will fail per call")
		provider = nil
	}

	return toolserver.New(toolserver.Options{OCR: engine, LLM: provider}).Run(ctx)
}
