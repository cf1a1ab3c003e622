package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName is the config directory name and the plugin id inside the vault.
const AppName = "mlsummary"

// Config holds all mlsummary configuration. Per-vault plugin settings
// (API key, prompt label) live in the vault's data.json, not here.
type Config struct {
	VaultPath   string `toml:"vault_path"`
	ProductName string `toml:"product_name"`

	LLM     LLMConfig     `toml:"llm"`
	Archive ArchiveConfig `toml:"archive"`
	Log     LogConfig     `toml:"log"`
}

type LLMConfig struct {
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type ArchiveConfig struct {
	Responses bool `toml:"responses"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		VaultPath:   "~/obsidian/vault",
		ProductName: "LLM",
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			BaseURL:        "https://api.openai.com/v1",
			APIKeyEnv:      "",
			TimeoutSeconds: 0,
		},
		Archive: ArchiveConfig{
			Responses: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.VaultPath = expandHome(cfg.VaultPath)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppName, "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", AppName, "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ConceptsDir returns the vault's Concepts directory.
func (c Config) ConceptsDir() string {
	return filepath.Join(c.VaultPath, "Concepts")
}

// StateDir returns the .mlsummary state directory inside the vault.
func (c Config) StateDir() string {
	return filepath.Join(c.VaultPath, "."+AppName)
}

// ResponsesDir returns where archived LLM responses are stored.
func (c Config) ResponsesDir() string {
	return filepath.Join(c.StateDir(), "responses")
}

// PluginDataPath returns the plugin's data.json inside the vault.
func (c Config) PluginDataPath() string {
	return filepath.Join(c.VaultPath, ".obsidian", "plugins", AppName, "data.json")
}

// Timeout returns the LLM request timeout. Zero means no deadline.
func (c Config) Timeout() time.Duration {
	if c.LLM.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// APIKeyOverride returns the key from the configured environment variable, if any.
func (c Config) APIKeyOverride() string {
	if c.LLM.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.LLM.APIKeyEnv)
}
