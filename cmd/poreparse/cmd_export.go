package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"poreparse/internal/export"
	"poreparse/poreblazer"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-dir>",
		Short: "Export a parsed table as CSV or Arrow IPC",
		Long: `Export one table of a run for downstream dataframe analysis.

Tables: psd (default), network-psd, volume, nitrogen.
Formats: csv (default), arrow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			formatName, _ := cmd.Flags().GetString("format")
			table, _ := cmd.Flags().GetString("table")
			outPath, _ := cmd.Flags().GetString("out")

			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			run, err := poreblazer.LoadWithNames(args[0], cfg.FileNames())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch table {
			case "psd":
				if len(run.PSD) == 0 {
					return fmt.Errorf("%s: no PSD files found", args[0])
				}
				err = export.WritePSD(w, run.PSD, format)
			case "network-psd":
				if len(run.NetworkPSD) == 0 {
					return fmt.Errorf("%s: no network-accessible PSD files found", args[0])
				}
				err = export.WritePSD(w, run.NetworkPSD, format)
			case "volume":
				if len(run.OccupiableVolume) == 0 {
					return fmt.Errorf("%s: no occupiable-volume file found", args[0])
				}
				err = export.WriteXYZ(w, run.OccupiableVolume, format)
			case "nitrogen":
				if len(run.NitrogenNetwork) == 0 {
					return fmt.Errorf("%s: no nitrogen-network file found", args[0])
				}
				err = export.WriteXYZ(w, run.NitrogenNetwork, format)
			default:
				return fmt.Errorf("unknown table %q (valid: psd, network-psd, volume, nitrogen)", table)
			}
			if err != nil {
				return err
			}

			logger.Debug("table exported", "table", table, "format", format, "out", outPath)
			return nil
		},
	}
	cmd.Flags().String("format", "csv", "Output format: csv or arrow")
	cmd.Flags().String("table", "psd", "Table to export: psd, network-psd, volume, or nitrogen")
	cmd.Flags().String("out", "", "Output file (default stdout)")
	return cmd
}
