package check

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/suykerbuyk/mlsummary/internal/config"
	"github.com/suykerbuyk/mlsummary/internal/hook"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/index"
	"github.com/suykerbuyk/mlsummary/internal/settings"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "mls check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("mls check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. Always passes; broken TOML
// fails config.Load before we get here.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(cfgPath); err != nil {
		return Result{Name: "config", Status: Pass, Detail: "defaults (" + config.CompressHome(cfgPath) + " not found)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfgPath)}
}

// CheckVaultPath checks whether the vault directory exists.
func CheckVaultPath(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "vault", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "vault", Status: Fail, Detail: path + " not found"}
}

// CheckObsidian checks whether .obsidian/ exists inside the vault.
func CheckObsidian(path string) Result {
	obsDir := filepath.Join(path, ".obsidian")
	if info, err := os.Stat(obsDir); err == nil && info.IsDir() {
		return Result{Name: "obsidian", Status: Pass, Detail: ".obsidian/ found"}
	}
	return Result{Name: "obsidian", Status: Warn, Detail: ".obsidian/ not found (not yet opened in Obsidian)"}
}

// CheckPlugin checks whether the plugin is enabled in community-plugins.json.
func CheckPlugin(vaultPath string) Result {
	path := hook.CommunityPluginsPath(vaultPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: "plugin", Status: Warn, Detail: "community-plugins.json not found (run mls install)"}
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return Result{Name: "plugin", Status: Fail, Detail: "community-plugins.json invalid JSON"}
	}
	if slices.Contains(ids, config.AppName) {
		return Result{Name: "plugin", Status: Pass, Detail: config.AppName + " enabled"}
	}
	return Result{Name: "plugin", Status: Warn, Detail: config.AppName + " not enabled (run mls install)"}
}

// CheckSettings validates the plugin's data.json.
func CheckSettings(dataPath string) Result {
	data, err := host.DataFile{Path: dataPath}.LoadData()
	if err != nil {
		return Result{Name: "settings", Status: Fail, Detail: err.Error()}
	}
	if data == nil {
		return Result{Name: "settings", Status: Warn, Detail: "data.json not found (defaults in use)"}
	}
	if _, err := settings.Merge(data); err != nil {
		return Result{Name: "settings", Status: Fail, Detail: "data.json invalid JSON (defaults in use)"}
	}
	return Result{Name: "settings", Status: Pass, Detail: "data.json"}
}

// CheckAPIKey reports where the API key will come from. The key itself is
// never printed.
func CheckAPIKey(s settings.Settings, llm config.LLMConfig) Result {
	if llm.APIKeyEnv != "" && os.Getenv(llm.APIKeyEnv) != "" {
		return Result{Name: "api-key", Status: Pass, Detail: llm.APIKeyEnv + " set"}
	}
	if s.APIKey != "" {
		return Result{Name: "api-key", Status: Pass, Detail: "set in settings"}
	}
	return Result{Name: "api-key", Status: Warn, Detail: "not set (mls settings set api-key <key>)"}
}

// CheckConcepts checks whether the Concepts directory exists and reports note count.
func CheckConcepts(conceptsDir string) Result {
	if _, err := os.Stat(conceptsDir); err != nil {
		return Result{Name: "concepts", Status: Warn, Detail: "Concepts/ not found (run mls folders)"}
	}
	count := countMD(conceptsDir)
	return Result{Name: "concepts", Status: Pass, Detail: fmt.Sprintf("Concepts/ (%d notes)", count)}
}

func countMD(dir string) int {
	count := 0
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".md") {
			count++
		}
		return nil
	})
	return count
}

// CheckLedger opens the concept ledger and reports its row count. A missing
// ledger is only a warning; it is created on the first run.
func CheckLedger(stateDir string) Result {
	path := filepath.Join(stateDir, index.FileName)
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "ledger", Status: Warn, Detail: index.FileName + " not found yet"}
	}
	idx, err := index.Open(stateDir)
	if err != nil {
		return Result{Name: "ledger", Status: Fail, Detail: err.Error()}
	}
	defer idx.Close()

	n, err := idx.Count(context.Background())
	if err != nil {
		return Result{Name: "ledger", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "ledger", Status: Pass, Detail: fmt.Sprintf("%s (%d entries)", index.FileName, n)}
}

// CheckDangling reports links left behind by failed concept runs.
func CheckDangling(vaultPath, conceptsDir string) Result {
	links, err := DanglingConcepts(vaultPath, conceptsDir)
	if err != nil {
		return Result{Name: "links", Status: Warn, Detail: err.Error()}
	}
	if len(links) == 0 {
		return Result{Name: "links", Status: Pass, Detail: "no dangling links"}
	}
	return Result{Name: "links", Status: Warn, Detail: fmt.Sprintf("%d dangling links (mls links --dangling)", len(links))}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config) Report {
	var results []Result

	current, _ := settings.Merge(loadData(cfg.PluginDataPath()))

	results = append(results, CheckConfig())
	results = append(results, CheckVaultPath(cfg.VaultPath))
	results = append(results, CheckObsidian(cfg.VaultPath))
	results = append(results, CheckPlugin(cfg.VaultPath))
	results = append(results, CheckSettings(cfg.PluginDataPath()))
	results = append(results, CheckAPIKey(current, cfg.LLM))
	results = append(results, CheckConcepts(cfg.ConceptsDir()))
	results = append(results, CheckLedger(cfg.StateDir()))
	results = append(results, CheckDangling(cfg.VaultPath, cfg.ConceptsDir()))

	return Report{Results: results}
}

func loadData(path string) []byte {
	data, _ := host.DataFile{Path: path}.LoadData()
	return data
}
