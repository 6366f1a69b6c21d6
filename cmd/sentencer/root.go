package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sentencer/internal/platform/config"
	"sentencer/internal/platform/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sentencer",
	Short: "Deterministic sentencing computation engine",
	Long: `sentencer computes recommended sentence ranges from structured case
inputs using table-driven rule sets.

Configuration is read from sentencer.{yaml,toml,json} in the working
directory or /etc/sentencer, and from SENTENCER_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file")
}

// loadConfig reads configuration and builds the matching logger. CLI
// commands log to stderr so stdout stays machine readable.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format), nil
}
