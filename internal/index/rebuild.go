package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/suykerbuyk/mlsummary/internal/noteparse"
)

// Rebuild walks conceptsDir and records every generated concept note the
// ledger does not know yet. Files prefixed with underscore and notes
// without the concept marker are skipped. Returns the number added.
func Rebuild(ctx context.Context, idx *Index, vaultRoot, conceptsDir string, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	count := 0
	err := filepath.WalkDir(conceptsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" || strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		note, parseErr := noteparse.ParseFile(path)
		if parseErr != nil {
			logger.Warn("rebuild: skip unreadable note", zap.String("path", path), zap.Error(parseErr))
			return nil
		}
		if !note.IsConcept {
			logger.Debug("rebuild: skip non-concept note", zap.String("path", path))
			return nil
		}

		rel, err := filepath.Rel(vaultRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		known, err := idx.HasNote(ctx, rel)
		if err != nil {
			return err
		}
		if known {
			return nil
		}

		entry := Entry{
			Title:    strings.TrimSuffix(d.Name(), ".md"),
			NotePath: rel,
			Status:   StatusRebuilt,
		}
		if info, err := os.Stat(path); err == nil {
			entry.CreatedAt = info.ModTime()
		}
		if _, err := idx.Add(ctx, entry); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("walk concepts: %w", err)
	}

	return count, nil
}
