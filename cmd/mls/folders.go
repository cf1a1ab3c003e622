package main

import (
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/plugin"
)

var foldersCmd = newCommand(help.CmdFolders, "folders", runFolders)

func init() {
	foldersCmd.Args = cobra.NoArgs
	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, args []string) error {
	console := host.Console{Out: cmd.ErrOrStderr(), Logger: logger}
	p, err := plugin.Open(cfg, console, console, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	return p.Execute(cmd.Context(), plugin.InitFoldersID, nil)
}
