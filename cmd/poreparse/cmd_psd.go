package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"poreparse/poreblazer"
)

func newPSDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "psd <run-dir>",
		Short: "Print the joined pore-size distribution of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			network, _ := cmd.Flags().GetBool("network")

			run, err := poreblazer.LoadWithNames(args[0], cfg.FileNames())
			if err != nil {
				return err
			}

			rows := run.PSD
			label := "total"
			if network {
				rows = run.NetworkPSD
				label = "network-accessible"
			}
			if len(rows) == 0 {
				return fmt.Errorf("%s: no %s PSD files found", args[0], label)
			}
			logger.Debug("psd loaded", "table", label, "rows", len(rows))

			if jsonOut {
				return writeJSON(cmd, rows)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %-18s %s\n", "d", "volume_fraction", "derivative_dist")
			for _, row := range rows {
				fmt.Fprintf(out, "%-12g %-18s %s\n", row.Diameter,
					nullableString(row.Cumulative), nullableString(row.Derivative))
			}
			return nil
		},
	}
	cmd.Flags().Bool("network", false, "Show the network-accessible PSD instead of the total PSD")
	return cmd
}

func nullableString(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
