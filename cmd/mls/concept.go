package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/mlsummary/internal/help"
	"github.com/suykerbuyk/mlsummary/internal/host"
	"github.com/suykerbuyk/mlsummary/internal/plugin"
)

var (
	conceptNote   string
	conceptSelect string
)

var conceptCmd = newCommand(help.CmdConcept, "concept", runConcept)

func init() {
	conceptCmd.Args = cobra.NoArgs
	conceptCmd.Flags().StringVar(&conceptNote, "note", "", "note to edit, relative to the vault or absolute")
	conceptCmd.Flags().StringVar(&conceptSelect, "select", "", "text to select in the note (first occurrence)")
	rootCmd.AddCommand(conceptCmd)
}

func runConcept(cmd *cobra.Command, args []string) error {
	console := host.Console{Out: cmd.ErrOrStderr(), Logger: logger}
	p, err := plugin.Open(cfg, console, console, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	if conceptNote != "" {
		return conceptInNote(cmd, p)
	}
	if conceptSelect != "" {
		return fmt.Errorf("--select needs --note")
	}
	return conceptFilter(cmd, p)
}

// conceptFilter treats stdin as the selection and prints the edited text.
// One trailing newline is kept out of the selection and restored on output.
func conceptFilter(cmd *cobra.Command, p *plugin.Plugin) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	text := string(data)
	suffix := ""
	if strings.HasSuffix(text, "\n") {
		text, suffix = strings.TrimSuffix(text, "\n"), "\n"
	}

	buf := host.NewBuffer(text)
	runErr := p.Execute(cmd.Context(), plugin.NewConceptID, buf)

	fmt.Fprint(cmd.OutOrStdout(), buf.Text()+suffix)
	return reported(runErr)
}

func conceptInNote(cmd *cobra.Command, p *plugin.Plugin) error {
	file, err := host.FSVault{Root: cfg.VaultPath}.OpenNote(conceptNote)
	if err != nil {
		return err
	}
	if conceptSelect != "" && !file.SelectFirst(conceptSelect) {
		return fmt.Errorf("%q not found in %s", conceptSelect, conceptNote)
	}

	before := file.Text()
	runErr := p.Execute(cmd.Context(), plugin.NewConceptID, file)
	if file.Text() != before {
		if err := file.Save(); err != nil {
			return fmt.Errorf("save note: %w", err)
		}
	}
	return reported(runErr)
}

// reported turns a command failure into errReported: the concept command
// has already shown it as a notice. Registry errors pass through.
func reported(err error) error {
	if err == nil || errors.Is(err, host.ErrNoEditor) || errors.Is(err, host.ErrUnknownCommand) {
		return err
	}
	return errReported
}
