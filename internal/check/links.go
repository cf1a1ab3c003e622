package check

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/mlsummary/internal/noteparse"
)

// Link is a wikilink found in a note.
type Link struct {
	Note   string // vault-relative, slash-separated
	Target string
}

// DanglingLinks returns every wikilink in the vault whose target matches no
// file, either by vault-relative path or by file name, the way Obsidian
// resolves links. Matching ignores case and the .md extension. Hidden
// directories are skipped.
func DanglingLinks(vaultPath string) ([]Link, error) {
	known := make(map[string]bool)
	var notes []string

	err := filepath.WalkDir(vaultPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != vaultPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(vaultPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if filepath.Ext(path) != ".md" {
			// attachments resolve by full name
			known[strings.ToLower(rel)] = true
			known[strings.ToLower(d.Name())] = true
			return nil
		}
		notes = append(notes, rel)
		known[strings.ToLower(strings.TrimSuffix(rel, ".md"))] = true
		known[strings.ToLower(strings.TrimSuffix(d.Name(), ".md"))] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []Link
	for _, rel := range notes {
		data, err := os.ReadFile(filepath.Join(vaultPath, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		for _, target := range noteparse.Links(string(data)) {
			key := strings.ToLower(strings.TrimSuffix(target, ".md"))
			if !known[key] {
				out = append(out, Link{Note: rel, Target: target})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Note != out[j].Note {
			return out[i].Note < out[j].Note
		}
		return out[i].Target < out[j].Target
	})
	return out, nil
}

// DanglingConcepts narrows DanglingLinks to links that point into the
// concepts folder's namespace: links with no folder part, which is what the
// concept command writes. Notes inside conceptsDir itself are not scanned.
func DanglingConcepts(vaultPath, conceptsDir string) ([]Link, error) {
	if _, err := os.Stat(vaultPath); err != nil {
		return nil, err
	}
	all, err := DanglingLinks(vaultPath)
	if err != nil {
		return nil, err
	}

	conceptsRel, _ := filepath.Rel(vaultPath, conceptsDir)
	conceptsRel = filepath.ToSlash(conceptsRel) + "/"

	var out []Link
	for _, l := range all {
		if strings.HasPrefix(l.Note, conceptsRel) || strings.Contains(l.Target, "/") {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
