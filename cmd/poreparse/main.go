package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"poreparse/internal/config"
	"poreparse/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "poreparse",
		Short: "Parse PoreBlazer output directories",
		Long: `poreparse reads the output files of a PoreBlazer run (summary.dat,
pore-size-distribution tables, xyz point clouds) and exposes them as
structured data: JSON on stdout, CSV/Arrow exports, or a local SQLite
index of many runs.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: info, debug, or trace")
	rootCmd.PersistentFlags().String("db", "", "Run index database path (default ~/.poreparse/runs.db)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newParseCmd(),
		newSummaryCmd(),
		newPSDCmd(),
		newCleanCmd(),
		newExportCmd(),
		newIndexCmd(),
		newRunsCmd(),
		newRemoveCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "poreparse version %s\n", version)
			}
		},
	}
}

// setup loads the config and builds the logger, honoring the --log-level
// flag over the config file and environment.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level = flagLevel
	}
	return cfg, logging.NewLogger(level, cmd.ErrOrStderr()), nil
}

// writeJSON pretty-prints v to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
