// Package plugin assembles the settings store, the concept command and the
// folder command into one registered unit, the way the host loads them.
package plugin

import (
	"context"

	"go.uber.org/zap"

	"github.com/suykerbuyk/mlsummary/internal/archive"
	"github.com/suykerbuyk/mlsummary/internal/concept"
	"github.com/suykerbuyk/mlsummary/internal/config"
	"github.com/suykerbuyk/mlsummary/internal/generator"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/index"
	"github.com/suykerbuyk/mlsummary/internal/scaffold"
	"github.com/suykerbuyk/mlsummary/internal/settings"
)

// Command ids, stable across releases.
const (
	InitFoldersID = "init-llm-summary-folders"
	NewConceptID  = "create-new-concept-from-selected"
)

// Host is the set of host objects the plugin is loaded into.
type Host struct {
	Vault    host.Vault
	Data     host.DataStore
	Notifier host.Notifier
	Status   host.StatusBar
}

// Options are optional collaborators. Nil fields are left out or, for
// Generator, replaced with a client built from the config.
type Options struct {
	Generator concept.Generator
	Ledger    concept.Ledger
	Archive   concept.ResponseArchiver
	Logger    *zap.Logger
}

// Plugin is a loaded plugin instance.
type Plugin struct {
	Settings *settings.Store
	Registry *host.Registry
	Concept  *concept.Command

	closers []func() error
}

// Load reads the settings, sets the status bar to ready and registers
// both commands.
func Load(cfg config.Config, h Host, opts Options) (*Plugin, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store := settings.NewStore(h.Data, logger)
	store.Load()

	gen := opts.Generator
	if gen == nil {
		gen = generator.New(cfg.LLM)
	}

	cmd := &concept.Command{
		Settings:       store,
		Generator:      gen,
		Vault:          h.Vault,
		Notifier:       h.Notifier,
		Status:         h.Status,
		ProductName:    cfg.ProductName,
		Folder:         concept.DefaultFolder,
		APIKeyOverride: cfg.APIKeyOverride(),
		Timeout:        cfg.Timeout(),
		Ledger:         opts.Ledger,
		Archive:        opts.Archive,
		Logger:         logger.Named("concept"),
	}

	reg := host.NewRegistry()
	err := reg.Register(host.Command{
		ID:   InitFoldersID,
		Name: "Initialize Notes Folders",
		Run: func(ctx context.Context, inv host.Invocation) error {
			scaffold.InitFolders(h.Vault)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	err = reg.Register(host.Command{
		ID:            NewConceptID,
		Name:          "New concept from selected",
		EditorCommand: true,
		Run: func(ctx context.Context, inv host.Invocation) error {
			return cmd.Run(ctx, inv.Editor).Err
		},
	})
	if err != nil {
		return nil, err
	}

	h.Status.SetText(concept.StatusReady)

	return &Plugin{Settings: store, Registry: reg, Concept: cmd}, nil
}

// Open loads the plugin against the vault directory named in cfg, with
// the concept ledger and, when enabled, the response archive. A ledger
// that cannot be opened is logged and left out.
func Open(cfg config.Config, notifier host.Notifier, status host.StatusBar, logger *zap.Logger) (*Plugin, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := Options{Logger: logger}
	idx, err := index.Open(cfg.StateDir())
	if err != nil {
		// Runs still work; they just go unrecorded.
		logger.Warn("ledger unavailable", zap.String("dir", cfg.StateDir()), zap.Error(err))
		idx = nil
	} else {
		opts.Ledger = idx
	}
	if cfg.Archive.Responses {
		dir := cfg.ResponsesDir()
		opts.Archive = func(raw []byte, runID string) error {
			_, err := archive.Archive(raw, dir, runID)
			return err
		}
	}

	h := Host{
		Vault:    host.FSVault{Root: cfg.VaultPath},
		Data:     host.DataFile{Path: cfg.PluginDataPath()},
		Notifier: notifier,
		Status:   status,
	}
	p, err := Load(cfg, h, opts)
	if err != nil {
		if idx != nil {
			idx.Close()
		}
		return nil, err
	}
	if idx != nil {
		p.closers = append(p.closers, idx.Close)
	}
	return p, nil
}

// Execute runs a registered command. Pass a nil editor for commands that
// do not need one.
func (p *Plugin) Execute(ctx context.Context, id string, editor host.Editor) error {
	return p.Registry.Execute(ctx, id, host.Invocation{Editor: editor})
}

// Close releases the ledger.
func (p *Plugin) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
