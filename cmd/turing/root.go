package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	logger   = logging.NewNop()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a deterministic single-tape Turing machine engine",
	Long: `Turing runs machines described as YAML, JSON or Markdown documents.
Machines live in a directory (see --dir) or are passed as a path to a document.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dir") {
			cfg.Dir, _ = cmd.Flags().GetString("dir")
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile, _ = cmd.Flags().GetString("log-file")
		}

		logger, closeLog, err = cli.NewLogger(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the machine documents (env TURING_DIR)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error (env TURING_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file (env TURING_LOG_FILE)")
}
