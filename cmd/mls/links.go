package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/check"
	"github.com/suykerbuyk/mlsummary/internal/help"
)

var (
	linksDangling bool
	linksAll      bool
)

var linksCmd = newCommand(help.CmdLinks, "links", runLinks)

func init() {
	linksCmd.Args = cobra.NoArgs
	linksCmd.Flags().BoolVar(&linksDangling, "dangling", false, "list links whose target note does not exist")
	linksCmd.Flags().BoolVar(&linksAll, "all", false, "include folder links and links inside Concepts/")
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	if !linksDangling {
		return fmt.Errorf("nothing to do (use --dangling)")
	}

	var (
		links []check.Link
		err   error
	)
	if linksAll {
		links, err = check.DanglingLinks(cfg.VaultPath)
	} else {
		links, err = check.DanglingConcepts(cfg.VaultPath, cfg.ConceptsDir())
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, l := range links {
		fmt.Fprintf(out, "%s\t%s\n", l.Note, l.Target)
	}
	return nil
}
