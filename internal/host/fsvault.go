package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrFileExists   = errors.New("File already exists.")
	ErrFolderExists = errors.New("Folder already exists.")
	ErrOutsideVault = errors.New("path is outside the vault")
)

// FSVault is a Vault rooted at a directory on disk. Paths are
// slash-separated and relative to the root, as in Obsidian.
type FSVault struct {
	Root string
}

func (v FSVault) abs(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, path)
	}
	return filepath.Join(v.Root, clean), nil
}

// Resolve maps a note path to a file inside the vault. Relative paths are
// taken from the root; absolute ones must already lie under it.
func (v FSVault) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		root, err := filepath.Abs(v.Root)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrOutsideVault, path)
		}
		path = filepath.ToSlash(rel)
	}
	return v.abs(path)
}

// OpenNote opens a note inside the vault for editing.
func (v FSVault) OpenNote(path string) (*FileEditor, error) {
	dest, err := v.Resolve(path)
	if err != nil {
		return nil, err
	}
	return OpenFile(dest)
}

// Create writes a new file. Missing parent folders are created; an
// existing file is never overwritten.
func (v FSVault) Create(path, content string) error {
	dest, err := v.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrFileExists
		}
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CreateFolder creates one folder (and any missing parents).
func (v FSVault) CreateFolder(path string) error {
	dest, err := v.abs(path)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return ErrFolderExists
	}
	return os.MkdirAll(dest, 0o755)
}

// Exists reports whether path exists inside the vault.
func (v FSVault) Exists(path string) bool {
	dest, err := v.abs(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(dest)
	return err == nil
}

// DataFile is a DataStore backed by a single JSON file.
type DataFile struct {
	Path string
}

func (d DataFile) LoadData() ([]byte, error) {
	data, err := os.ReadFile(d.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// SaveData replaces the file atomically: readers see the old record or the
// new one, never a truncated file.
func (d DataFile) SaveData(data []byte) error {
	dir := filepath.Dir(d.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create plugin dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.Path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.Path)
}

// FileEditor is an Editor over a note on disk. Changes are held in memory
// until Save.
type FileEditor struct {
	*Buffer
	Path string
}

// OpenFile loads path into a FileEditor with nothing selected.
func OpenFile(path string) (*FileEditor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open note: %w", err)
	}
	b := NewBuffer(string(data))
	b.start, b.end = 0, 0
	return &FileEditor{Buffer: b, Path: path}, nil
}

// Save writes the buffer back to disk.
func (e *FileEditor) Save() error {
	return os.WriteFile(e.Path, []byte(e.Text()), 0o644)
}
