package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/suykerbuyk/mlsummary/internal/config"
)

// Manifest is the plugin manifest the host reads from the plugin folder.
type Manifest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Version       string `json:"version"`
	MinAppVersion string `json:"minAppVersion"`
	Description   string `json:"description"`
	IsDesktopOnly bool   `json:"isDesktopOnly"`
}

// CommunityPluginsPath returns the host's list of enabled plugins.
func CommunityPluginsPath(vaultPath string) string {
	return filepath.Join(vaultPath, ".obsidian", "community-plugins.json")
}

// ManifestPath returns the plugin manifest path inside the vault.
func ManifestPath(vaultPath string) string {
	return filepath.Join(vaultPath, ".obsidian", "plugins", config.AppName, "manifest.json")
}

// Install enables the plugin in the vault: it writes the manifest and adds
// the plugin id to community-plugins.json. Idempotent: returns nil even when
// already installed.
func Install(vaultPath, version string, out io.Writer) error {
	if err := writeManifest(vaultPath, version); err != nil {
		return err
	}

	path := CommunityPluginsPath(vaultPath)
	enabled, err := readPluginList(path)
	if err != nil {
		return err
	}

	if slices.Contains(enabled, config.AppName) {
		fmt.Fprintf(out, "%s already enabled in %s\n", config.AppName, config.CompressHome(path))
		return nil
	}

	if err := backup(path); err != nil {
		return err
	}

	if err := writePluginList(path, append(enabled, config.AppName)); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s enabled in %s\n", config.AppName, config.CompressHome(path))
	return nil
}

// Uninstall removes the plugin id from community-plugins.json. The plugin
// folder and its data.json are kept. Idempotent: returns nil even when not
// installed.
func Uninstall(vaultPath string, out io.Writer) error {
	path := CommunityPluginsPath(vaultPath)
	enabled, err := readPluginList(path)
	if err != nil {
		return err
	}

	if !slices.Contains(enabled, config.AppName) {
		fmt.Fprintf(out, "%s not enabled in %s\n", config.AppName, config.CompressHome(path))
		return nil
	}

	if err := backup(path); err != nil {
		return err
	}

	kept := slices.DeleteFunc(enabled, func(id string) bool { return id == config.AppName })
	if err := writePluginList(path, kept); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s disabled in %s\n", config.AppName, config.CompressHome(path))
	return nil
}

// readPluginList reads the enabled plugin ids.
// Returns an empty list if the file doesn't exist or is empty.
func readPluginList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", config.CompressHome(path), err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse %s: %w", config.CompressHome(path), err)
	}
	return ids, nil
}

// writePluginList writes ids as pretty-printed JSON, creating the parent
// directory if needed.
func writePluginList(path string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return writeJSON(path, ids)
}

func writeManifest(vaultPath, version string) error {
	return writeJSON(ManifestPath(vaultPath), Manifest{
		ID:            config.AppName,
		Name:          "ML Summary",
		Version:       version,
		MinAppVersion: "0.15.0",
		Description:   "Turn selected text into generated concept notes.",
		IsDesktopOnly: true,
	})
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", config.CompressHome(path), err)
	}
	return nil
}

// backup copies path to path.mls.bak. No-op if source doesn't exist.
func backup(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", config.CompressHome(path), err)
	}
	defer src.Close()

	dst, err := os.Create(path + ".mls.bak")
	if err != nil {
		return fmt.Errorf("backup: create %s.mls.bak: %w", config.CompressHome(path), err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("backup: copy: %w", err)
	}
	return nil
}
