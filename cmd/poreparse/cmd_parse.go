package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poreparse/poreblazer"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <run-dir>",
		Short: "Parse a run directory and print its contents",
		Long: `Parse every recognized PoreBlazer output file in the directory and
print the result. With --json the full run (summary, PSD tables, point
clouds) is printed; otherwise a short report of what was found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			run, err := poreblazer.LoadWithNames(args[0], cfg.FileNames())
			if err != nil {
				return err
			}
			logger.Debug("run parsed", "dir", run.Dir, "files", len(run.Files))

			if jsonOut {
				return writeJSON(cmd, run)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run: %s\n", run.Dir)
			if run.InputFileName != "" {
				fmt.Fprintf(out, "Input file: %s\n", run.InputFileName)
			}
			if run.Summary != nil {
				fmt.Fprintf(out, "Summary: %d general, %d total, %d network-accessible values\n",
					len(run.Summary.General), len(run.Summary.Total), len(run.Summary.NetworkAccessible))
			}
			if len(run.PSD) > 0 {
				fmt.Fprintf(out, "PSD: %d rows\n", len(run.PSD))
			}
			if len(run.NetworkPSD) > 0 {
				fmt.Fprintf(out, "Network-accessible PSD: %d rows\n", len(run.NetworkPSD))
			}
			if len(run.OccupiableVolume) > 0 {
				fmt.Fprintf(out, "Occupiable volume: %d points\n", len(run.OccupiableVolume))
			}
			if len(run.NitrogenNetwork) > 0 {
				fmt.Fprintf(out, "Nitrogen network: %d points\n", len(run.NitrogenNetwork))
			}
			return nil
		},
	}
}
