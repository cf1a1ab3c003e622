package test

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// mlsBinary is the path to the compiled mls binary, set by TestMain.
var mlsBinary string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	tmpDir, err := os.MkdirTemp("", "mls-integration-build-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	mlsBinary = filepath.Join(tmpDir, "mls")
	cmd := exec.Command("go", "build", "-o", mlsBinary, "./cmd/mls")
	// Test working dir is test/, so go up one level to project root
	cmd.Dir = filepath.Join("..")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build mls binary: %v\n", err)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// --- Fake chat endpoint ---

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type fakeLLM struct {
	mu       sync.Mutex
	requests []chatRequest
	auth     []string
}

func (f *fakeLLM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req chatRequest
	_ = json.Unmarshal(body, &req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[0].Content
	}
	w.Header().Set("Content-Type", "application/json")
	if strings.Contains(prompt, "Broken") {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"The server had an error"}}`)
		return
	}
	fmt.Fprintf(w, `{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"\n Explanation for: %s \n"}}]}`,
		strings.ReplaceAll(prompt, `"`, `'`))
}

func (f *fakeLLM) last() (chatRequest, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1], f.auth[len(f.auth)-1]
}

func (f *fakeLLM) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// --- Helpers ---

func runMLS(t *testing.T, env []string, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(mlsBinary, args...)
	cmd.Env = env
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func mustRunMLS(t *testing.T, env []string, stdin string, args ...string) (string, string) {
	t.Helper()
	stdout, stderr, err := runMLS(t, env, stdin, args...)
	if err != nil {
		t.Fatalf("mls %v: %v\nstdout: %s\nstderr: %s", args, err, stdout, stderr)
	}
	return stdout, stderr
}

func exitCode(err error) int {
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func buildEnv(xdgConfigHome string) []string {
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + os.Getenv("HOME"),
		"XDG_CONFIG_HOME=" + xdgConfigHome,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: expected to contain %q, got:\n%s", msg, substr, s)
	}
}

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	llm := &fakeLLM{}
	srv := httptest.NewServer(llm)
	defer srv.Close()

	vaultPath := filepath.Join(t.TempDir(), "ml-notes")
	xdgConfigHome := t.TempDir()
	env := buildEnv(xdgConfigHome)
	conceptsDir := filepath.Join(vaultPath, "Concepts")

	// 1. init
	t.Run("init", func(t *testing.T) {
		_, stderr := mustRunMLS(t, env, "", "init", vaultPath)

		for _, rel := range []string{"README.md", ".obsidian/app.json", ".obsidian/plugins/mlsummary/data.json", ".obsidian/plugins/mlsummary/manifest.json"} {
			if !fileExists(filepath.Join(vaultPath, rel)) {
				t.Errorf("%s not created", rel)
			}
		}
		for _, rel := range []string{"Topics", "Notes/Read", "Concepts", "Files/PDFs"} {
			if !dirExists(filepath.Join(vaultPath, rel)) {
				t.Errorf("folder %s not created", rel)
			}
		}
		assertContains(t, readFile(t, filepath.Join(vaultPath, ".obsidian", "community-plugins.json")), "mlsummary", "plugin enabled")
		assertContains(t, stderr, "config created", "init stderr")

		// Point the config at the fake endpoint.
		cfgPath := filepath.Join(xdgConfigHome, "mlsummary", "config.toml")
		cfg := readFile(t, cfgPath)
		assertContains(t, cfg, "vault_path", "config content")
		cfg = strings.Replace(cfg, "https://api.openai.com/v1", srv.URL, 1)
		if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
			t.Fatal(err)
		}
	})

	// 2. settings
	t.Run("settings", func(t *testing.T) {
		mustRunMLS(t, env, "", "settings", "set", "api-key", "sk-integration-key")

		stdout, _ := mustRunMLS(t, env, "", "settings", "get", "api-key")
		if strings.TrimSpace(stdout) != "sk-integration-key" {
			t.Errorf("get api-key = %q", stdout)
		}

		stdout, _ = mustRunMLS(t, env, "", "settings")
		assertContains(t, stdout, "concept-prompt", "settings listing")
		if strings.Contains(stdout, "sk-integration-key") {
			t.Error("settings listing must mask the API key")
		}

		_, _, err := runMLS(t, env, "", "settings", "set", "colour", "blue")
		if exitCode(err) != 1 {
			t.Errorf("unknown field: exit %d", exitCode(err))
		}
	})

	// 3. concept as an editor filter
	t.Run("concept_filter", func(t *testing.T) {
		stdout, stderr := mustRunMLS(t, env, "Gradient Descent\n", "concept")

		if stdout != "[[Gradient Descent]]\n" {
			t.Errorf("stdout = %q", stdout)
		}
		assertContains(t, stderr, "Defining new concept: Gradient Descent", "notice")
		assertContains(t, stderr, "New created note at Concepts/Gradient Descent", "notice")

		note := readFile(t, filepath.Join(conceptsDir, "Gradient Descent.md"))
		if note != "This is a LLM Concept.\n\nExplanation for: Define and explain this ML concept: Gradient Descent" {
			t.Errorf("note = %q", note)
		}

		req, auth := llm.last()
		if auth != "Bearer sk-integration-key" {
			t.Errorf("auth = %q", auth)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("request = %+v", req)
		}
	})

	// 4. rejections and failures
	t.Run("concept_duplicate", func(t *testing.T) {
		stdout, stderr, err := runMLS(t, env, "Gradient Descent", "concept")
		if exitCode(err) != 1 {
			t.Errorf("exit = %d", exitCode(err))
		}
		if stdout != "[[Gradient Descent]]" {
			t.Errorf("link should still replace the selection, stdout = %q", stdout)
		}
		assertContains(t, stderr, "Error creating note: File already exists.", "duplicate notice")
	})

	t.Run("concept_empty", func(t *testing.T) {
		before := llm.count()
		stdout, stderr, err := runMLS(t, env, "   ", "concept")
		if exitCode(err) != 1 {
			t.Errorf("exit = %d", exitCode(err))
		}
		if stdout != "   " {
			t.Errorf("stdout = %q", stdout)
		}
		assertContains(t, stderr, "No text selected", "empty notice")
		if llm.count() != before {
			t.Error("endpoint must not be called")
		}
	})

	t.Run("concept_invalid_name", func(t *testing.T) {
		stdout, stderr, _ := runMLS(t, env, "///???", "concept")
		if stdout != "///???" {
			t.Errorf("stdout = %q", stdout)
		}
		assertContains(t, stderr, "Selected text is not valid for a file name", "invalid notice")
	})

	t.Run("concept_generation_failure", func(t *testing.T) {
		stdout, stderr, err := runMLS(t, env, "Broken Thing", "concept")
		if exitCode(err) != 1 {
			t.Errorf("exit = %d", exitCode(err))
		}
		if stdout != "[[Broken Thing]]" {
			t.Errorf("stdout = %q", stdout)
		}
		assertContains(t, stderr, "Error creating note: ", "failure notice")
		if fileExists(filepath.Join(conceptsDir, "Broken Thing.md")) {
			t.Error("no note should be written on failure")
		}
	})

	// 5. concept inside a note on disk
	t.Run("concept_note", func(t *testing.T) {
		notePath := filepath.Join(vaultPath, "Notes", "reading.md")
		if err := os.WriteFile(notePath, []byte("We trained with Adam and then Broken Thing.\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		mustRunMLS(t, env, "", "concept", "--note", "Notes/reading.md", "--select", "Adam")

		assertContains(t, readFile(t, notePath), "We trained with [[Adam]] and", "note edited")
		if !fileExists(filepath.Join(conceptsDir, "Adam.md")) {
			t.Error("Adam.md not created")
		}

		_, _, err := runMLS(t, env, "", "concept", "--note", "Notes/reading.md", "--select", "Broken Thing")
		if exitCode(err) != 1 {
			t.Errorf("exit = %d", exitCode(err))
		}

		outside := filepath.Join(filepath.Dir(vaultPath), "outside.md")
		if err := os.WriteFile(outside, []byte("Entropy outside"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, stderr, err := runMLS(t, env, "", "concept", "--note", "../outside.md", "--select", "Entropy")
		if exitCode(err) != 1 {
			t.Errorf("outside note: exit = %d", exitCode(err))
		}
		assertContains(t, stderr, "outside the vault", "outside note error")
		if got := readFile(t, outside); got != "Entropy outside" {
			t.Errorf("note outside the vault was edited: %q", got)
		}
	})

	// 6. dangling links left by failures
	t.Run("links_dangling", func(t *testing.T) {
		stdout, _ := mustRunMLS(t, env, "", "links", "--dangling")
		assertContains(t, stdout, "Notes/reading.md\tBroken Thing", "dangling link")
		if strings.Contains(stdout, "Adam") {
			t.Errorf("Adam resolves, got %q", stdout)
		}
	})

	// 7. hook protocol
	t.Run("hook", func(t *testing.T) {
		stdout, _ := mustRunMLS(t, env, `{"command":"create-new-concept-from-selected","selection":"Entropy"}`, "hook")

		var resp struct {
			Replacement *string  `json:"replacement"`
			Notices     []string `json:"notices"`
			Status      string   `json:"status"`
			Error       string   `json:"error"`
		}
		if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
			t.Fatalf("decode %q: %v", stdout, err)
		}
		if resp.Replacement == nil || *resp.Replacement != "[[Entropy]]" {
			t.Errorf("replacement = %v", resp.Replacement)
		}
		if resp.Status != "LLM Ready" || resp.Error != "" {
			t.Errorf("resp = %+v", resp)
		}

		_, _, err := runMLS(t, env, `{"command":"nope"}`, "hook")
		if exitCode(err) != 1 {
			t.Errorf("unknown command exit = %d", exitCode(err))
		}
	})

	// 8. ledger
	t.Run("list", func(t *testing.T) {
		stdout, _ := mustRunMLS(t, env, "", "list", "--json", "-n", "0")
		var entries []struct {
			Title  string `json:"title"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
			t.Fatalf("decode %q: %v", stdout, err)
		}
		created, failed := 0, 0
		for _, e := range entries {
			switch e.Status {
			case "created":
				created++
			case "failed":
				failed++
			}
		}
		// created: Gradient Descent, Adam, Entropy
		// failed: duplicate, Broken Thing twice
		if created != 3 || failed != 3 {
			t.Errorf("created=%d failed=%d, entries=%+v", created, failed, entries)
		}

		archives, _ := filepath.Glob(filepath.Join(vaultPath, ".mlsummary", "responses", "*.json.zst"))
		if len(archives) != 3 {
			t.Errorf("archived responses = %d, want 3", len(archives))
		}
	})

	t.Run("stats", func(t *testing.T) {
		stdout, _ := mustRunMLS(t, env, "", "stats")
		assertContains(t, stdout, "success rate", "stats overview")
		assertContains(t, stdout, "50%", "3 created of 6 generated")
		assertContains(t, stdout, "File already exists.", "common failures")
	})

	t.Run("rebuild", func(t *testing.T) {
		if err := os.Remove(filepath.Join(vaultPath, ".mlsummary", "concepts.db")); err != nil {
			t.Fatal(err)
		}
		stdout, _ := mustRunMLS(t, env, "", "rebuild")
		assertContains(t, stdout, "added 3, 3 entries total", "rebuild output")
	})

	// 9. doctor
	t.Run("check", func(t *testing.T) {
		stdout, _ := mustRunMLS(t, env, "", "check")
		assertContains(t, stdout, "mls check", "header")
		assertContains(t, stdout, "set in settings", "api key")
		assertContains(t, stdout, "dangling", "links check")
	})

	t.Run("folders_idempotent", func(t *testing.T) {
		stdout, stderr := mustRunMLS(t, env, "", "folders")
		if stdout != "" || stderr != "" {
			t.Errorf("folders should print nothing, got %q / %q", stdout, stderr)
		}
	})

	t.Run("version", func(t *testing.T) {
		stdout, _ := mustRunMLS(t, env, "", "version")
		assertContains(t, stdout, "mls v", "version")
	})

	t.Run("help", func(t *testing.T) {
		stdout, _ := mustRunMLS(t, env, "", "concept", "--help")
		assertContains(t, stdout, "Usage: mls concept", "concept help")
	})
}
