package scaffold

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/mlsummary/internal/config"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/settings"
)

//go:embed all:templates
var templates embed.FS

// Options controls scaffold behavior.
type Options struct {
	GitInit bool // run git init after scaffolding
}

// Init creates a new Obsidian vault at targetPath with the plugin's default
// settings and the standard folder layout.
func Init(targetPath string, opts Options) error {
	targetPath, err := filepath.Abs(targetPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// Refuse if target already contains a vault or mlsummary state.
	if dirExists(filepath.Join(targetPath, ".obsidian")) {
		return fmt.Errorf("%s already contains .obsidian/, refusing to overwrite", targetPath)
	}
	if dirExists(filepath.Join(targetPath, "."+config.AppName)) {
		return fmt.Errorf("%s already contains .%s/, refusing to overwrite", targetPath, config.AppName)
	}

	vaultName := filepath.Base(targetPath)

	err = fs.WalkDir(templates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel("templates", path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		dest := filepath.Join(targetPath, rel)

		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}

		data, err := templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", path, err)
		}

		if rel == "README.md" {
			data = []byte(strings.ReplaceAll(string(data), "{{VAULT_NAME}}", vaultName))
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dest, data, 0o644)
	})
	if err != nil {
		return fmt.Errorf("scaffold vault: %w", err)
	}

	if err := writeDefaultSettings(targetPath); err != nil {
		return err
	}

	InitFolders(host.FSVault{Root: targetPath})

	if opts.GitInit {
		cmd := exec.Command("git", "init", targetPath)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}

	return nil
}

func writeDefaultSettings(vaultPath string) error {
	data, err := json.MarshalIndent(settings.Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	df := host.DataFile{Path: config.Config{VaultPath: vaultPath}.PluginDataPath()}
	if err := df.SaveData(data); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
