// Package concept turns the editor selection into a generated concept note.
package concept

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/mlsummary/internal/generator"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/index"
	"github.com/suykerbuyk/mlsummary/internal/render"
	"github.com/suykerbuyk/mlsummary/internal/sanitize"
	"github.com/suykerbuyk/mlsummary/internal/settings"
)

// User-visible strings.
const (
	NoticeNoSelection  = "No text selected"
	NoticeInvalidName  = "Selected text is not valid for a file name"
	noticeDefining     = "Defining new concept: "
	noticeCreated      = "New created note at "
	noticeErrorPrefix  = "Error creating note: "
	StatusWorking      = "Defining New Concept.."
	StatusReady        = "LLM Ready"
	DefaultFolder      = "Concepts"
	DefaultProductName = "LLM"
)

// Generator produces the concept text. *generator.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, sourceText, promptLabel, apiKey string) (*generator.Result, error)
}

// Ledger records finished runs. *index.Index satisfies it.
type Ledger interface {
	Add(ctx context.Context, e index.Entry) (index.Entry, error)
}

// ResponseArchiver stores the raw endpoint response of a successful run.
type ResponseArchiver func(raw []byte, runID string) error

// Command is the "new concept from selected" workflow. One Command is
// built at registration and reused; it keeps no state between runs, and
// concurrent runs are not coordinated.
type Command struct {
	Settings  *settings.Store
	Generator Generator
	Vault     host.Vault
	Notifier  host.Notifier
	Status    host.StatusBar

	ProductName string // "This is a <ProductName> Concept."
	Folder      string // vault folder for new notes

	// APIKeyOverride, when non-empty, replaces the stored API key.
	APIKeyOverride string
	// Timeout bounds the endpoint call. Zero waits indefinitely.
	Timeout time.Duration

	Ledger  Ledger           // optional
	Archive ResponseArchiver // optional
	Logger  *zap.Logger      // optional

	// Observe, if set, is called on every state transition.
	Observe func(State)
}

func (c *Command) enter(s State) {
	if c.Observe != nil {
		c.Observe(s)
	}
}

func (c *Command) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Run executes one invocation against editor.
//
// The selection is replaced with a link to the new note before the
// endpoint answers. That link is left in place when generation or note
// creation fails, so a failed run leaves a dangling link; `mls links
// --dangling` lists them.
func (c *Command) Run(ctx context.Context, editor host.Editor) Outcome {
	defer c.enter(Idle)
	defer c.Status.SetText(StatusReady)

	c.enter(Validating)

	selected := editor.Selection()
	if sanitize.IsBlank(selected) {
		c.Notifier.Notice(NoticeNoSelection)
		return Outcome{Kind: EmptySelection, Err: ErrEmptySelection}
	}

	title := sanitize.Title(selected)
	if title == "" {
		c.Notifier.Notice(NoticeInvalidName)
		return Outcome{Kind: InvalidFileName, Err: ErrInvalidFileName}
	}

	c.enter(Generating)

	folder := c.Folder
	if folder == "" {
		folder = DefaultFolder
	}
	notePath := render.NoteRelPath(folder, title)

	c.Notifier.Notice(noticeDefining + title)
	editor.ReplaceSelection(render.WikiLink(title))
	c.Status.SetText(StatusWorking)

	current := c.Settings.Current()
	apiKey := current.APIKey
	if c.APIKeyOverride != "" {
		apiKey = c.APIKeyOverride
	}

	genCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	log := c.logger().With(zap.String("title", title))
	log.Debug("generating concept", zap.String("label", current.ConceptPromptLabel))

	result, err := c.Generator.Generate(genCtx, selected, current.ConceptPromptLabel, apiKey)
	if err != nil {
		return c.fail(ctx, log, GenerationFailed, title, notePath, current.ConceptPromptLabel, "", err)
	}

	c.enter(Writing)

	product := c.ProductName
	if product == "" {
		product = DefaultProductName
	}
	if err := c.Vault.Create(notePath, render.ConceptNote(product, result.Text)); err != nil {
		ferr := &FileCreationError{Path: notePath, Err: err}
		return c.fail(ctx, log, FileCreationFailed, title, notePath, current.ConceptPromptLabel, result.Model, ferr)
	}

	c.Notifier.Notice(noticeCreated + render.NoteDisplayPath(folder, title))
	log.Info("concept created", zap.String("path", notePath))

	runID := c.record(ctx, log, index.Entry{
		Title:       title,
		NotePath:    notePath,
		PromptLabel: current.ConceptPromptLabel,
		Model:       result.Model,
		Status:      index.StatusCreated,
	})

	if c.Archive != nil && runID != "" && len(result.Raw) > 0 {
		if err := c.Archive(result.Raw, runID); err != nil {
			log.Warn("archive response", zap.Error(err))
		}
	}

	return Outcome{Kind: Created, Title: title, Path: notePath, RunID: runID}
}

func (c *Command) fail(ctx context.Context, log *zap.Logger, kind Kind, title, notePath, label, model string, err error) Outcome {
	c.Notifier.Notice(noticeErrorPrefix + err.Error())
	log.Warn("concept failed", zap.Stringer("kind", kind), zap.Error(err))

	runID := c.record(ctx, log, index.Entry{
		Title:       title,
		NotePath:    notePath,
		PromptLabel: label,
		Model:       model,
		Status:      index.StatusFailed,
		Error:       err.Error(),
	})
	return Outcome{Kind: kind, Title: title, Path: notePath, RunID: runID, Err: err}
}

// record adds e to the ledger and returns its id. Ledger problems are
// logged and never change the user-visible outcome.
func (c *Command) record(ctx context.Context, log *zap.Logger, e index.Entry) string {
	if c.Ledger == nil {
		return ""
	}
	// The run's own context may already be cancelled after a timeout.
	stored, err := c.Ledger.Add(context.WithoutCancel(ctx), e)
	if err != nil {
		log.Warn("record concept", zap.Error(err))
		return ""
	}
	return stored.ID
}

// IsRejected reports whether err is one of the validation rejections.
func IsRejected(err error) bool {
	return errors.Is(err, ErrEmptySelection) || errors.Is(err, ErrInvalidFileName)
}
