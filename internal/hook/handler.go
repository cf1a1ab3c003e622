// Package hook is the JSON protocol a host shim uses to run plugin commands
// through mls, and the installer that enables the plugin in a vault.
package hook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/mlsummary/internal/config"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/plugin"
)

const readTimeout = 2 * time.Second

// Request is the JSON object a host shim sends on stdin.
type Request struct {
	Command   string `json:"command"`
	Selection string `json:"selection,omitempty"`
	// NotePath, if set, names a vault-relative note whose first occurrence
	// of Selection is replaced on disk.
	NotePath string `json:"note_path,omitempty"`
}

// Response is written to stdout after the command finishes. Error carries
// the same message the user was shown as a notice; it is empty on success.
type Response struct {
	Command     string   `json:"command"`
	Replacement *string  `json:"replacement,omitempty"`
	Notices     []string `json:"notices"`
	Status      string   `json:"status"`
	Error       string   `json:"error,omitempty"`
}

// Handle reads one request from in, runs it and writes the response to out.
// Protocol problems (bad JSON, unknown command, missing note) are returned
// as errors; command failures are reported in the response.
func Handle(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	req, err := readRequest(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	resp, err := handleRequest(ctx, req, cfg, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func readRequest(in io.Reader) (*Request, error) {
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(in)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return nil, err
	case <-time.After(readTimeout):
		return nil, fmt.Errorf("stdin read timeout")
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty stdin")
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse stdin JSON: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("no command in request")
	}
	return &req, nil
}

// replacementRecorder remembers what the command put in place of the
// selection.
type replacementRecorder struct {
	host.Editor
	replaced *string
}

func (r *replacementRecorder) ReplaceSelection(text string) {
	r.Editor.ReplaceSelection(text)
	r.replaced = &text
}

func handleRequest(ctx context.Context, req *Request, cfg config.Config, logger *zap.Logger) (*Response, error) {
	rec := &host.Recorder{}
	p, err := plugin.Open(cfg, rec, rec, logger)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var (
		editor *replacementRecorder
		file   *host.FileEditor
	)
	if cmd, ok := p.Registry.Lookup(req.Command); ok && cmd.EditorCommand {
		editor, file, err = openEditor(cfg, req)
		if err != nil {
			return nil, err
		}
	}

	var inv host.Editor
	if editor != nil {
		inv = editor
	}
	runErr := p.Execute(ctx, req.Command, inv)
	if errors.Is(runErr, host.ErrUnknownCommand) {
		return nil, runErr
	}

	if file != nil && editor.replaced != nil {
		if err := file.Save(); err != nil {
			return nil, fmt.Errorf("save note: %w", err)
		}
	}

	resp := &Response{
		Command: req.Command,
		Notices: rec.Notices(),
		Status:  rec.Status(),
	}
	if editor != nil {
		resp.Replacement = editor.replaced
	}
	if runErr != nil {
		resp.Error = runErr.Error()
		logger.Debug("command failed", zap.String("command", req.Command), zap.Error(runErr))
	}
	if resp.Notices == nil {
		resp.Notices = []string{}
	}
	return resp, nil
}

func openEditor(cfg config.Config, req *Request) (*replacementRecorder, *host.FileEditor, error) {
	if req.NotePath == "" {
		return &replacementRecorder{Editor: host.NewBuffer(req.Selection)}, nil, nil
	}

	file, err := host.FSVault{Root: cfg.VaultPath}.OpenNote(req.NotePath)
	if err != nil {
		return nil, nil, err
	}
	if req.Selection != "" && !file.SelectFirst(req.Selection) {
		return nil, nil, fmt.Errorf("selection not found in %s", req.NotePath)
	}
	return &replacementRecorder{Editor: file}, file, nil
}
