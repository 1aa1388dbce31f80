package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/medpass/medpass/internal/orchestrator"
	"github.com/spf13/cobra"
)

func callCmd() *cobra.Command {
	var locale, target string
	cmd := &cobra.Command{
		Use:          "call [image]",
		Short:        "Call an already-running orchestrator once and exit",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			image := cfg.SampleImage
			if len(args) == 1 {
				image = args[0]
			}

			addrs := orchestrator.AddressesFromEnv()
			if err := waitReady(cmd.Context(), addrs.Orchestrator, cfg.ReadinessTimeout(), cfg.ReadinessInterval()); err != nil {
				return err
			}
			reply, err := runWorkflow(cmd.Context(), addrs, image, locale, target)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, reply)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "ara", "OCR locale hint (e.g. eng, ara)")
	cmd.Flags().StringVar(&target, "target", "en", "clinic working language")
	return cmd
}

// waitReady polls the orchestrator's card endpoint until it answers.
func waitReady(ctx context.Context, baseURL string, timeout, interval time.Duration) error {
	client := orchestrator.NewClient(5 * time.Second)
	deadline := time.Now().Add(timeout)
	for {
		if _, err := client.FetchCard(ctx, baseURL); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for orchestrator at %s", baseURL)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for orchestrator: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
