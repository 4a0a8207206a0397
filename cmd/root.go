// Package cmd implements the CLI surface: the thin external collaborator
// that submits tasks to the dispatch engine and renders its status events.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MartyrMind/email-cli-app/internal/build"
	"github.com/MartyrMind/email-cli-app/internal/config"
	"github.com/MartyrMind/email-cli-app/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:     "email-cli-app",
	Short:   "Queue-backed email dispatch from the command line",
	Long:    "Compose Markdown emails and dispatch them through named SMTP profiles,\nwith concurrent per-recipient delivery and live status reporting.",
	Version: build.String(),

	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadApp loads the process configuration, the profile registry and the
// application logger. Shared by every subcommand.
func loadApp() (*config.AppConfig, *config.ProfileRegistry, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	profiles, err := config.LoadProfiles(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.LogDir(), cfg.SlogLevel())
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, profiles, log, nil
}
