package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poreparse/poreblazer"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <run-dir>",
		Short: "Rewrite output files in normalized form",
		Long: `Rewrite the recognized output files with collapsed whitespace and
single-token summary keys, so they can be loaded directly into
spreadsheets or dataframe libraries. Parsing does not require this;
poreparse normalizes in memory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			clean := poreblazer.CleanDir
			if dryRun {
				clean = poreblazer.CleanDirPreview
			}
			changed, err := clean(args[0], cfg.FileNames())
			if err != nil {
				return err
			}
			logger.Debug("clean finished", "dir", args[0], "changed", len(changed), "dry_run", dryRun)

			if jsonOut {
				return writeJSON(cmd, map[string]any{"changed": changed, "dry_run": dryRun})
			}

			out := cmd.OutOrStdout()
			if len(changed) == 0 {
				fmt.Fprintln(out, "Nothing to clean.")
				return nil
			}
			verb := "Cleaned"
			if dryRun {
				verb = "Would clean"
			}
			for _, path := range changed {
				fmt.Fprintf(out, "%s %s\n", verb, path)
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Report files that would change without writing")
	return cmd
}
