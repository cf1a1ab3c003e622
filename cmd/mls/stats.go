package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/index"
	"github.com/suykerbuyk/mlsummary/internal/stats"
)

var statsLabel string

var statsCmd = newCommand(help.CmdStats, "stats", runStats)

func init() {
	statsCmd.Args = cobra.NoArgs
	statsCmd.Flags().StringVar(&statsLabel, "label", "", "only count runs made with this prompt label")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	idx, err := index.Open(cfg.StateDir())
	if err != nil {
		return err
	}
	defer idx.Close()

	entries, err := idx.List(cmd.Context(), 0)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), stats.Format(stats.Compute(entries, statsLabel), statsLabel))
	return nil
}
