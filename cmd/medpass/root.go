package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/medpass/medpass/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:   "medpass",
		Short: "medpass turns a scanned clinical note into a bilingual referral packet",
	}
)

// Execute runs the root command.
func Execute(ctx context.Context) error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", filepath.Join(".medpass", "config.json"), "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(debug)
	}
	rootCmd.AddCommand(launchCmd())
	rootCmd.AddCommand(callCmd())
	rootCmd.AddCommand(agentCmd())
	rootCmd.AddCommand(toolsCmd())
	return rootCmd.ExecuteContext(ctx)
}

func initConfig() {
	// API keys come from the environment; a local .env tops it up without
	// overriding variables that are already exported.
	_ = godotenv.Load()
}
