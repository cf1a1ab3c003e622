package concept

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suykerbuyk/mlsummary/internal/archive"
	"github.com/suykerbuyk/mlsummary/internal/generator"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/index"
	"github.com/suykerbuyk/mlsummary/internal/settings"
)

type stubGenerator struct {
	result *generator.Result
	err    error

	calls  int
	source string
	label  string
	apiKey string
	// selection as seen by the editor when Generate was called
	editorText string
	editor     *host.Buffer
}

func (g *stubGenerator) Generate(_ context.Context, sourceText, promptLabel, apiKey string) (*generator.Result, error) {
	g.calls++
	g.source, g.label, g.apiKey = sourceText, promptLabel, apiKey
	if g.editor != nil {
		g.editorText = g.editor.Text()
	}
	return g.result, g.err
}

type memData struct{ data []byte }

func (m *memData) LoadData() ([]byte, error) { return m.data, nil }
func (m *memData) SaveData(d []byte) error   { m.data = d; return nil }

type fixture struct {
	cmd    *Command
	gen    *stubGenerator
	rec    *host.Recorder
	vault  host.FSVault
	states []State
}

func newFixture(t *testing.T, stored string) *fixture {
	t.Helper()
	store := settings.NewStore(&memData{data: []byte(stored)}, nil)
	store.Load()

	f := &fixture{
		gen:   &stubGenerator{result: &generator.Result{Text: "An optimization algorithm.", Model: "gpt-4o-mini"}},
		rec:   &host.Recorder{},
		vault: host.FSVault{Root: t.TempDir()},
	}
	f.cmd = &Command{
		Settings:  store,
		Generator: f.gen,
		Vault:     f.vault,
		Notifier:  f.rec,
		Status:    f.rec,
		Observe:   func(s State) { f.states = append(f.states, s) },
	}
	return f
}

func (f *fixture) run(t *testing.T, selected string) (Outcome, *host.Buffer) {
	t.Helper()
	buf := host.NewBuffer(selected)
	f.gen.editor = buf
	return f.cmd.Run(context.Background(), buf), buf
}

func (f *fixture) readNote(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.vault.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestRun_Created(t *testing.T) {
	f := newFixture(t, `{"OpenAIAPIKey":"sk-test"}`)

	out, buf := f.run(t, "Gradient Descent")

	require.NoError(t, out.Err)
	assert.Equal(t, Created, out.Kind)
	assert.Equal(t, "Gradient Descent", out.Title)
	assert.Equal(t, "Concepts/Gradient Descent.md", out.Path)

	assert.Equal(t, "[[Gradient Descent]]", buf.Text())
	assert.Equal(t, "[[Gradient Descent]]", f.gen.editorText, "link must be in place before the call")
	assert.Equal(t, "Gradient Descent", f.gen.source)
	assert.Equal(t, "ML", f.gen.label)
	assert.Equal(t, "sk-test", f.gen.apiKey)

	assert.Equal(t, "This is a LLM Concept.\n\nAn optimization algorithm.",
		f.readNote(t, "Concepts/Gradient Descent.md"))

	assert.Equal(t, []string{
		"Defining new concept: Gradient Descent",
		"New created note at Concepts/Gradient Descent",
	}, f.rec.Notices())
	assert.Equal(t, []string{StatusWorking, StatusReady}, f.rec.StatusHistory())
	assert.Equal(t, []State{Validating, Generating, Writing, Idle}, f.states)
}

func TestRun_EmptySelection(t *testing.T) {
	for _, sel := range []string{"", "   \n\t"} {
		f := newFixture(t, "")

		out, buf := f.run(t, sel)

		assert.Equal(t, EmptySelection, out.Kind)
		assert.ErrorIs(t, out.Err, ErrEmptySelection)
		assert.True(t, IsRejected(out.Err))
		assert.Equal(t, sel, buf.Text())
		assert.Equal(t, []string{"No text selected"}, f.rec.Notices())
		assert.Equal(t, 0, f.gen.calls)
		assert.Equal(t, StatusReady, f.rec.Status())
		assert.Equal(t, []State{Validating, Idle}, f.states)
	}
}

func TestRun_InvalidFileName(t *testing.T) {
	f := newFixture(t, "")

	out, buf := f.run(t, "///???")

	assert.Equal(t, InvalidFileName, out.Kind)
	assert.ErrorIs(t, out.Err, ErrInvalidFileName)
	assert.Equal(t, "///???", buf.Text(), "selection must be untouched")
	assert.Equal(t, []string{"Selected text is not valid for a file name"}, f.rec.Notices())
	assert.Equal(t, 0, f.gen.calls)

	entries, err := os.ReadDir(f.vault.Root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_SanitizedTitleRawPrompt(t *testing.T) {
	f := newFixture(t, "")

	out, buf := f.run(t, "  What is A/B testing?  ")

	require.NoError(t, out.Err)
	assert.Equal(t, "What is AB testing", out.Title)
	assert.Equal(t, "[[What is AB testing]]", buf.Text())
	assert.Equal(t, "  What is A/B testing?  ", f.gen.source, "prompt uses the raw selection")
	assert.FileExists(t, filepath.Join(f.vault.Root, "Concepts", "What is AB testing.md"))
}

func TestRun_GenerationFailureKeepsLink(t *testing.T) {
	f := newFixture(t, "")
	f.gen.result = nil
	f.gen.err = &generator.GenerationError{Message: "timeout"}

	out, buf := f.run(t, "Gradient Descent")

	assert.Equal(t, GenerationFailed, out.Kind)
	var genErr *generator.GenerationError
	assert.True(t, errors.As(out.Err, &genErr))
	assert.Equal(t, "[[Gradient Descent]]", buf.Text())
	assert.NoFileExists(t, filepath.Join(f.vault.Root, "Concepts", "Gradient Descent.md"))
	assert.Equal(t, []string{
		"Defining new concept: Gradient Descent",
		"Error creating note: timeout",
	}, f.rec.Notices())
	assert.Equal(t, StatusReady, f.rec.Status())
	assert.Equal(t, []State{Validating, Generating, Idle}, f.states)
}

func TestRun_DuplicateNote(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.vault.Create("Concepts/Gradient Descent.md", "mine"))

	out, buf := f.run(t, "Gradient Descent")

	assert.Equal(t, FileCreationFailed, out.Kind)
	var fileErr *FileCreationError
	require.True(t, errors.As(out.Err, &fileErr))
	assert.Equal(t, "Concepts/Gradient Descent.md", fileErr.Path)
	assert.ErrorIs(t, out.Err, host.ErrFileExists)

	assert.Equal(t, "[[Gradient Descent]]", buf.Text())
	assert.Equal(t, "mine", f.readNote(t, "Concepts/Gradient Descent.md"))
	assert.Equal(t, "Error creating note: "+host.ErrFileExists.Error(), f.rec.Notices()[1])
	assert.Equal(t, []State{Validating, Generating, Writing, Idle}, f.states)
}

func TestRun_EmptyGeneratedText(t *testing.T) {
	f := newFixture(t, "")
	f.gen.result = &generator.Result{}

	out, _ := f.run(t, "Entropy")

	require.NoError(t, out.Err)
	assert.Equal(t, "This is a LLM Concept.\n\n", f.readNote(t, "Concepts/Entropy.md"))
}

func TestRun_LabelAndOverrides(t *testing.T) {
	f := newFixture(t, `{"OpenAIAPIKey":"sk-stored","newConceptPrompt":""}`)
	f.cmd.APIKeyOverride = "sk-env"
	f.cmd.ProductName = "Physics"
	f.cmd.Folder = "Glossary"

	out, _ := f.run(t, "Entropy")

	require.NoError(t, out.Err)
	assert.Equal(t, "", f.gen.label)
	assert.Equal(t, "sk-env", f.gen.apiKey)
	assert.Equal(t, "Glossary/Entropy.md", out.Path)
	assert.Equal(t, "This is a Physics Concept.\n\nAn optimization algorithm.", f.readNote(t, "Glossary/Entropy.md"))
	assert.Contains(t, f.rec.Notices(), "New created note at Glossary/Entropy")
}

func TestRun_SettingsReadPerInvocation(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.cmd.Settings.Update(func(s *settings.Settings) { s.ConceptPromptLabel = "Statistics" })
	require.NoError(t, err)

	f.run(t, "Variance")
	assert.Equal(t, "Statistics", f.gen.label)
}

func TestRun_RecordsLedgerAndArchive(t *testing.T) {
	f := newFixture(t, "")
	stateDir := filepath.Join(f.vault.Root, ".mlsummary")
	idx, err := index.Open(stateDir)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	responses := filepath.Join(stateDir, "responses")
	f.cmd.Ledger = idx
	f.cmd.Archive = func(raw []byte, id string) error {
		_, err := archive.Archive(raw, responses, id)
		return err
	}
	f.gen.result.Raw = []byte(`{"choices":[]}`)

	ok, _ := f.run(t, "Gradient Descent")
	require.NoError(t, ok.Err)
	require.NotEmpty(t, ok.RunID)

	f.gen.result = nil
	f.gen.err = &generator.GenerationError{Message: "429 rate limited"}
	failed, _ := f.run(t, "Momentum")
	require.Error(t, failed.Err)

	entries, err := idx.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, index.StatusFailed, entries[0].Status)
	assert.Equal(t, "429 rate limited", entries[0].Error)
	assert.Equal(t, index.StatusCreated, entries[1].Status)
	assert.Equal(t, "gpt-4o-mini", entries[1].Model)

	raw, err := archive.Read(archive.ArchivePath(ok.RunID, responses))
	require.NoError(t, err)
	assert.JSONEq(t, `{"choices":[]}`, string(raw))
	assert.False(t, archive.IsArchived(failed.RunID, responses))
}

func TestRun_LedgerFailureDoesNotChangeOutcome(t *testing.T) {
	f := newFixture(t, "")
	f.cmd.Ledger = failingLedger{}

	out, _ := f.run(t, "Bias")

	require.NoError(t, out.Err)
	assert.Equal(t, Created, out.Kind)
	assert.Empty(t, out.RunID)
}

type failingLedger struct{}

func (failingLedger) Add(context.Context, index.Entry) (index.Entry, error) {
	return index.Entry{}, errors.New("disk full")
}

func TestStateAndKindStrings(t *testing.T) {
	assert.Equal(t, "generating", Generating.String())
	assert.Equal(t, "file-creation-failed", FileCreationFailed.String())
}
