// Package settings persists the per-vault plugin settings through the
// host's data store.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/suykerbuyk/mlsummary/internal/host"
)

// Settings is the plugin's persisted record. JSON keys match the data.json
// the host has always stored for this plugin.
type Settings struct {
	APIKey              string `json:"OpenAIAPIKey"`
	ConceptPromptLabel  string `json:"newConceptPrompt"`
	PDFFolder           string `json:"pdfFolder"`
	SummaryOutputFolder string `json:"summaryOutputFolder"`
}

// Default returns the record every load is merged over.
func Default() Settings {
	return Settings{
		APIKey:              "",
		ConceptPromptLabel:  "ML",
		PDFFolder:           "Files/Raw PDFs",
		SummaryOutputFolder: "Concepts",
	}
}

// Merge overlays the keys present in data on Default(). Nil or empty data
// yields the defaults.
func Merge(data []byte) (Settings, error) {
	s := Default()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Store owns the live Settings for one vault. Commands receive the same
// *Store at registration and read it on every invocation.
type Store struct {
	backend host.DataStore
	logger  *zap.Logger

	mu      sync.Mutex
	current Settings
	last    []byte // bytes last read from or written to the backend
}

// NewStore returns a store holding the defaults until Load is called.
func NewStore(backend host.DataStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger, current: Default()}
}

// Load reads the backend and merges it over the defaults. Missing or
// unreadable data is treated as an empty record, so Load always yields a
// complete Settings.
func (s *Store) Load() Settings {
	data, err := s.backend.LoadData()
	if err != nil {
		s.logger.Warn("settings unreadable, using defaults", zap.Error(err))
		data = nil
	}

	merged, err := Merge(data)
	if err != nil {
		s.logger.Warn("settings invalid, using defaults", zap.Error(err))
	}

	s.mu.Lock()
	s.current = merged
	s.last = data
	s.mu.Unlock()
	return merged
}

// Reload re-reads the backend after an outside change and reports whether
// the current settings were replaced. Data this store wrote itself, and
// empty or unparsable data (a write still in progress), leave the current
// settings alone.
func (s *Store) Reload() (Settings, bool) {
	data, err := s.backend.LoadData()
	if err != nil {
		s.logger.Warn("settings reload failed", zap.Error(err))
		return s.Current(), false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(data) == 0 || bytes.Equal(data, s.last) {
		return s.current, false
	}
	merged, err := Merge(data)
	if err != nil {
		s.logger.Debug("settings reload skipped", zap.Error(err))
		return s.current, false
	}
	s.last = data
	if merged == s.current {
		return s.current, false
	}
	s.current = merged
	return merged, true
}

// Current returns the in-memory settings without touching the backend.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save persists the full record and makes it current.
func (s *Store) Save(settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.backend.SaveData(data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	s.current = settings
	s.last = data
	s.mu.Unlock()
	return nil
}

// Update applies fn to a copy of the current settings and saves the result.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	next := s.Current()
	fn(&next)
	if err := s.Save(next); err != nil {
		return s.Current(), err
	}
	return next, nil
}
