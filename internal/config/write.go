package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var vaultPathLine = regexp.MustCompile(`(?m)^vault_path\s*=.*$`)

// ConfigDir returns the mlsummary config directory path.
// Uses $XDG_CONFIG_HOME/mlsummary if set, otherwise ~/.config/mlsummary.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppName)
}

// WriteDefault writes a default config.toml pointing to vaultPath.
// If a config already exists only its vault_path line is rewritten; every
// other section is left as the user wrote it. Returns the config path and
// one of "created", "updated" or "unchanged".
func WriteDefault(vaultPath string) (string, string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")
	portablePath := CompressHome(vaultPath)
	line := fmt.Sprintf("vault_path = %q", portablePath)

	existing, err := os.ReadFile(path)
	if err == nil {
		content := string(existing)
		var updated string
		if vaultPathLine.MatchString(content) {
			updated = vaultPathLine.ReplaceAllLiteralString(content, line)
		} else {
			updated = line + "\n\n" + content
		}
		if updated == content {
			return path, "unchanged", nil
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return "", "", fmt.Errorf("write config: %w", err)
		}
		return path, "updated", nil
	}
	if !os.IsNotExist(err) {
		return "", "", fmt.Errorf("read config: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create config dir: %w", err)
	}

	content := line + `
product_name = "LLM"

[llm]
model = "gpt-4o-mini"
base_url = "https://api.openai.com/v1"
api_key_env = ""
timeout_seconds = 0

[archive]
responses = true

[log]
level = "warn"
format = "console"
`

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("write config: %w", err)
	}

	return path, "created", nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
