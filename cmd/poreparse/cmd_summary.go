package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"poreparse/poreblazer"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <run-dir>",
		Short: "Print the scalar summary of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			names := cfg.FileNames()
			files, err := poreblazer.DiscoverFiles(args[0], names)
			if err != nil {
				return err
			}
			path, ok := files[poreblazer.FileSummary]
			if !ok {
				return fmt.Errorf("%s: no %s found", args[0], names[poreblazer.FileSummary])
			}

			summary, err := poreblazer.ParseSummaryFile(path)
			if err != nil {
				return err
			}
			logger.Debug("summary parsed", "path", path)

			if jsonOut {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Input file: %s\n", summary.InputFileName)
			printSection(cmd, "General", valueStrings(summary.General))
			printSection(cmd, "Total", floatStrings(summary.Total))
			printSection(cmd, "Network accessible", floatStrings(summary.NetworkAccessible))
			return nil
		},
	}
}

type kv struct {
	key, value string
}

func printSection(cmd *cobra.Command, title string, entries []kv) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(out, "  %-28s %s\n", e.key, e.value)
	}
}

func valueStrings(m map[string]poreblazer.Value) []kv {
	entries := make([]kv, 0, len(m))
	for k, v := range m {
		entries = append(entries, kv{key: k, value: v.String()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}

func floatStrings(m map[string]float64) []kv {
	entries := make([]kv, 0, len(m))
	for k, v := range m {
		entries = append(entries, kv{key: k, value: fmt.Sprintf("%g", v)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}
