package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/agents/intake"
	"github.com/medpass/medpass/internal/agents/orchestrate"
	"github.com/medpass/medpass/internal/agents/referral"
	"github.com/medpass/medpass/internal/agents/structure"
	"github.com/medpass/medpass/internal/agents/summarize"
	"github.com/medpass/medpass/internal/agents/translate"
	"github.com/medpass/medpass/internal/config"
	"github.com/medpass/medpass/internal/orchestrator"
	"github.com/spf13/cobra"
)

func agentCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:          "agent <name>",
		Short:        "Run a single stage agent server",
		Hidden:       true,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runAgent(cmd.Context(), args[0], port, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port")
	_ = cmd.MarkFlagRequired("port")
	return cmd
}

func runAgent(ctx context.Context, name string, port int, cfg config.Config) error {
	url := fmt.Sprintf("http://127.0.0.1:%d/", port)

	var srv *agent.Server
	if name == "orchestrate" {
		pipeline := orchestrator.NewPipeline(orchestrator.NewClient(0), orchestrator.AddressesFromEnv(), cfg.FontsDir, cfg.OutputDir)
		srv = orchestrate.New(url, pipeline)
	} else {
		session := agent.NewMCPSession(agent.SelfCommand(), toolServerArgs()...)
		defer session.Close()
		switch name {
		case "intake":
			srv = intake.New(url, session)
		case "translate":
			srv = translate.New(url, session)
		case "structure":
			srv = structure.New(url, session)
		case "summarize":
			srv = summarize.New(url, session)
		case "referral":
			srv = referral.New(url, session, referral.Options{
				OutputDir:   cfg.OutputDir,
				ClinicFont:  orchestrator.ResolveFont(cfg.FontsDir, "en"),
				PatientFont: orchestrator.ResolveFont(cfg.FontsDir, "ar"),
			})
		default:
			return fmt.Errorf("unknown agent %q", name)
		}
	}

	return serveAgent(ctx, port, srv)
}

// toolServerArgs is the argv the stage agents use to spawn their MCP tool
// subprocess, propagating the config path and debug flag.
func toolServerArgs() []string {
	args := []string{"tools", "--config", cfgFile}
	if debug {
		args = append(args, "--debug")
	}
	return args
}

// serveAgent runs the agent's HTTP server until the context is canceled or
// the listener fails, then shuts the server down gracefully.
func serveAgent(ctx context.Context, port int, srv *agent.Server) error {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: srv.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
