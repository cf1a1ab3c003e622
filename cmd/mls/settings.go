package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/panel"
	"github.com/suykerbuyk/mlsummary/internal/settings"
)

var (
	settingsCmd     = newCommand(help.CmdSettings, "settings", runSettingsShow)
	settingsGetCmd  = newCommand(help.CmdSettingsGet, "get <field>", runSettingsGet)
	settingsSetCmd  = newCommand(help.CmdSettingsSet, "set <field> <value>", runSettingsSet)
	settingsEditCmd = newCommand(help.CmdSettingsEdit, "edit", runSettingsEdit)
)

func init() {
	settingsCmd.Args = cobra.NoArgs
	settingsGetCmd.Args = cobra.ExactArgs(1)
	settingsSetCmd.Args = cobra.ExactArgs(2)
	settingsEditCmd.Args = cobra.NoArgs

	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsEditCmd)
	rootCmd.AddCommand(settingsCmd)
}

func openSettings() *settings.Store {
	store := settings.NewStore(host.DataFile{Path: cfg.PluginDataPath()}, logger)
	store.Load()
	return store
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	current := openSettings().Current()
	out := cmd.OutOrStdout()
	for _, f := range settings.Fields() {
		v, _ := current.Get(f)
		if f == settings.FieldAPIKey {
			v = maskKey(v)
		}
		fmt.Fprintf(out, "%-22s %s\n", f, v)
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	v, err := openSettings().Current().Get(settings.Field(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	field := settings.Field(args[0])
	if _, err := settings.Default().Get(field); err != nil {
		return err
	}
	_, err := openSettings().Update(func(s *settings.Settings) {
		_ = s.Set(field, args[1])
	})
	return err
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	path := cfg.PluginDataPath()
	// the watcher needs the directory to exist
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return panel.Run(cmd.Context(), openSettings(), path, logger)
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-7) + key[len(key)-4:]
}
