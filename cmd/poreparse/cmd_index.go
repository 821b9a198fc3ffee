package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"poreparse/internal/config"
	"poreparse/internal/store"
	"poreparse/poreblazer"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <run-dir>...",
		Short: "Parse runs and add them to the local index",
		Long: `Parse one or more run directories and store their summaries and PSD
tables in the SQLite index, so they can be listed and queried later
without re-parsing. Re-indexing a directory replaces its entry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			indexed := make([]string, 0, len(args))
			for _, dir := range args {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return fmt.Errorf("resolving %s: %w", dir, err)
				}
				run, err := poreblazer.LoadWithNames(abs, cfg.FileNames())
				if err != nil {
					return err
				}
				if _, err := s.IndexRun(cmd.Context(), run); err != nil {
					return err
				}
				logger.Debug("run indexed", "dir", abs)
				indexed = append(indexed, abs)
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{"indexed": indexed})
			}
			for _, dir := range indexed {
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s\n", dir)
			}
			return nil
		},
	}
}

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List indexed runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs indexed.")
				return nil
			}
			for _, rec := range runs {
				fmt.Fprintf(out, "%s  (input: %s, indexed %s)\n",
					rec.Dir, rec.InputFile, rec.IndexedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <run-dir>",
		Short: "Remove a run from the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}

			s, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving %s: %w", args[0], err)
			}
			if err := s.DeleteRun(cmd.Context(), abs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", abs)
			return nil
		},
	}
}

// openStore opens the run index at the configured path, honoring the --db
// flag when set.
func openStore(cmd *cobra.Command, cfg *config.Config) (*store.RunStore, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		var err error
		path, err = cfg.IndexPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}
