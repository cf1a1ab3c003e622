package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/index"
)

var (
	listLimit int
	listJSON  bool
)

var (
	listCmd    = newCommand(help.CmdList, "list", runList)
	rebuildCmd = newCommand(help.CmdRebuild, "rebuild", runRebuild)
)

func init() {
	listCmd.Args = cobra.NoArgs
	listCmd.Flags().IntVarP(&listLimit, "count", "n", 20, "show at most count runs (0 for all)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
	rebuildCmd.Args = cobra.NoArgs
	rootCmd.AddCommand(listCmd, rebuildCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	idx, err := index.Open(cfg.StateDir())
	if err != nil {
		return err
	}
	defer idx.Close()

	entries, err := idx.List(cmd.Context(), listLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []index.Entry{}
		}
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "no concepts recorded")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		detail := e.NotePath
		if e.Status == index.StatusFailed {
			detail = e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Status, e.Title, detail)
	}
	return tw.Flush()
}

func runRebuild(cmd *cobra.Command, args []string) error {
	idx, err := index.Open(cfg.StateDir())
	if err != nil {
		return err
	}
	defer idx.Close()

	added, err := index.Rebuild(cmd.Context(), idx, cfg.VaultPath, cfg.ConceptsDir(), logger)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	total, err := idx.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d, %d entries total\n", added, total)
	return nil
}
