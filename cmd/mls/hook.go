package main

import (
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/hook"
)

var (
	hookCmd          = newCommand(help.CmdHook, "hook", runHook)
	hookInstallCmd   = newCommand(help.CmdHookInstall, "install", runHookInstall)
	hookUninstallCmd = newCommand(help.CmdHookUninstall, "uninstall", runHookUninstall)
)

func init() {
	hookCmd.Args = cobra.NoArgs
	hookInstallCmd.Args = cobra.NoArgs
	hookUninstallCmd.Args = cobra.NoArgs
	hookCmd.AddCommand(hookInstallCmd, hookUninstallCmd)
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	return hook.Handle(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

func runHookInstall(cmd *cobra.Command, args []string) error {
	return hook.Install(cfg.VaultPath, help.Version, cmd.ErrOrStderr())
}

func runHookUninstall(cmd *cobra.Command, args []string) error {
	return hook.Uninstall(cfg.VaultPath, cmd.ErrOrStderr())
}
