package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/check"
	"github.com/suykerbuyk/mlsummary/internal/help"
)

var (
	checkCmd   = newCommand(help.CmdCheck, "check", runCheck)
	versionCmd = newCommand(help.CmdVersion, "version", runVersion)
)

func init() {
	checkCmd.Args = cobra.NoArgs
	versionCmd.Args = cobra.NoArgs
	rootCmd.AddCommand(checkCmd, versionCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	report := check.Run(cfg)
	fmt.Fprint(cmd.OutOrStdout(), report.Format())
	if report.HasFailures() {
		return errReported
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "mls v%s (mlsummary)\n", help.Version)
	return nil
}
