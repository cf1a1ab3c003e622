package scaffold

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suykerbuyk/mlsummary/internal/host"
)

type folderRecorder struct {
	created []string
	failOn  map[string]bool
}

func (r *folderRecorder) Create(string, string) error { return nil }

func (r *folderRecorder) CreateFolder(path string) error {
	r.created = append(r.created, path)
	if r.failOn[path] {
		return errors.New("boom")
	}
	return nil
}

func TestInitFolders_Order(t *testing.T) {
	r := &folderRecorder{}
	InitFolders(r)

	want := []string{"Topics", "Notes", "Notes/Read", "Concepts", "Attachments", "Files", "Files/PDFs"}
	if strings.Join(r.created, ",") != strings.Join(want, ",") {
		t.Errorf("created = %v, want %v", r.created, want)
	}
}

func TestInitFolders_FailureDoesNotStop(t *testing.T) {
	r := &folderRecorder{failOn: map[string]bool{"Topics": true, "Concepts": true}}
	InitFolders(r)

	if len(r.created) != len(Folders) {
		t.Errorf("attempted %d folders, want %d", len(r.created), len(Folders))
	}
}

func TestInitFolders_Idempotent(t *testing.T) {
	root := t.TempDir()
	v := host.FSVault{Root: root}
	if err := os.MkdirAll(filepath.Join(root, "Concepts"), 0o755); err != nil {
		t.Fatal(err)
	}

	InitFolders(v)
	InitFolders(v)

	for _, f := range Folders {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(f)))
		if err != nil || !info.IsDir() {
			t.Errorf("folder %s missing", f)
		}
	}
}

func TestInit_CreatesVault(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "my-vault")

	if err := Init(target, Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, rel := range []string{
		"README.md",
		".gitignore",
		".obsidian/app.json",
		".obsidian/plugins/mlsummary/data.json",
		"Concepts",
		"Notes/Read",
		"Files/PDFs",
	} {
		path := filepath.Join(target, rel)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected %s to exist", rel)
		}
	}
}

func TestInit_DefaultSettings(t *testing.T) {
	target := filepath.Join(t.TempDir(), "v")
	if err := Init(target, Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, ".obsidian", "plugins", "mlsummary", "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("data.json: %v", err)
	}
	if got["newConceptPrompt"] != "ML" {
		t.Errorf("newConceptPrompt = %q, want %q", got["newConceptPrompt"], "ML")
	}
	if v, ok := got["OpenAIAPIKey"]; !ok || v != "" {
		t.Errorf("OpenAIAPIKey = %q (present %v), want empty", v, ok)
	}
}

func TestInit_RefusesExistingObsidian(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "existing")
	os.MkdirAll(filepath.Join(target, ".obsidian"), 0o755)

	err := Init(target, Options{})
	if err == nil {
		t.Fatal("expected error for existing .obsidian/")
	}
	if want := "already contains .obsidian/"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want substring %q", err, want)
	}
}

func TestInit_RefusesExistingState(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "existing")
	os.MkdirAll(filepath.Join(target, ".mlsummary"), 0o755)

	err := Init(target, Options{})
	if err == nil {
		t.Fatal("expected error for existing .mlsummary/")
	}
	if want := "already contains .mlsummary/"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want substring %q", err, want)
	}
}

func TestInit_VaultNameReplacement(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "ml-notes")

	if err := Init(target, Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "# ml-notes") {
		t.Error("README.md should contain vault name as heading")
	}
	if strings.Contains(content, "{{VAULT_NAME}}") {
		t.Error("README.md still contains {{VAULT_NAME}} placeholder")
	}
}
