package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/config"
	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/hook"
	"github.com/suykerbuyk/mlsummary/internal/scaffold"
)

var initGit bool

var initCmd = newCommand(help.CmdInit, "init [path]", runInit)

func init() {
	initCmd.Args = cobra.MaximumNArgs(1)
	initCmd.Flags().BoolVar(&initGit, "git", false, "initialize a git repository in the new vault")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "./ml-notes"
	if len(args) > 0 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := scaffold.Init(abs, scaffold.Options{GitInit: initGit}); err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "created vault at %s\n", config.CompressHome(abs))

	if err := hook.Install(abs, help.Version, out); err != nil {
		return err
	}

	cfgPath, action, err := config.WriteDefault(abs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "config %s: %s\n", action, config.CompressHome(cfgPath))
	return nil
}
