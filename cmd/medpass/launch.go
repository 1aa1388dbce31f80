package main

import (
	"fmt"
	"os"

	"github.com/medpass/medpass/internal/agent"
	"github.com/medpass/medpass/internal/orchestrator"
	"github.com/medpass/medpass/internal/supervise"
	"github.com/spf13/cobra"
)

func launchCmd() *cobra.Command {
	var locale, target string
	cmd := &cobra.Command{
		Use:          "launch [image]",
		Short:        "Start all agents, run one workflow, and tear everything down",
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
			sup := supervise.New(agent.SelfCommand(), supervise.Options{
				ReadyTimeout:  cfg.ReadinessTimeout(),
				PollInterval:  cfg.ReadinessInterval(),
				ShutdownGrace: cfg.ShutdownGrace(),
			})
			defer sup.Shutdown()
			if err := sup.Start(cmd.Context(), agentSpecs(addrs)); err != nil {
				return err
			}

			fmt.Println("calling orchestrator...")
			reply, err := runWorkflow(cmd.Context(), addrs, image, locale, target)
			if err != nil {
				return err
			}
			if err := printJSON(os.Stdout, reply); err != nil {
				return err
			}
			fmt.Println("Workflow completed successfully. Referral packet generated:")
			if msg, ok := reply["final_message"].(string); ok && msg != "" {
				fmt.Println(msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "ara", "OCR locale hint (e.g. eng, ara)")
	cmd.Flags().StringVar(&target, "target", "en", "clinic working language")
	return cmd
}
