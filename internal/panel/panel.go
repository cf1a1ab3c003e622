// Package panel is the terminal settings panel: two text fields bound to
// the plugin settings, saved on every edit.
package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/suykerbuyk/mlsummary/internal/settings"
)

// FieldChangedMsg describes one edit of a field. Keystrokes in the panel are
// turned into one each; other programs may send it to set a field.
type FieldChangedMsg struct {
	Field settings.Field
	Value string
}

// SettingsReloadedMsg reports that the settings file changed on disk. The
// file is re-read when the message is handled, so a signal queued behind
// local edits never brings back older values.
type SettingsReloadedMsg struct{}

type entry struct {
	field       settings.Field
	name        string
	description string
	input       textinput.Model
}

// Model is the Bubble Tea model for the settings panel.
type Model struct {
	store   *settings.Store
	reloads <-chan struct{}

	entries []entry
	focus   int
	err     error

	styles styles
}

type styles struct {
	title       lipgloss.Style
	name        lipgloss.Style
	description lipgloss.Style
	err         lipgloss.Style
	help        lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true).MarginBottom(1),
		name:        lipgloss.NewStyle().Bold(true),
		description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		err:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
	}
}

// New builds a panel over store. reloads, if non-nil, signals that the
// settings file changed on disk (see settings.Watch).
func New(store *settings.Store, reloads <-chan struct{}) Model {
	current := store.Current()

	apiKey := textinput.New()
	apiKey.Placeholder = "sk-..."
	apiKey.SetValue(current.APIKey)
	apiKey.Width = 48
	apiKey.Focus()

	label := textinput.New()
	label.Placeholder = "ML"
	label.SetValue(current.ConceptPromptLabel)
	label.Width = 48

	return Model{
		store:   store,
		reloads: reloads,
		entries: []entry{
			{
				field:       settings.FieldAPIKey,
				name:        "OpenAI API Key (Required)",
				description: "Enter your OpenAI API Key",
				input:       apiKey,
			},
			{
				field:       settings.FieldConceptPromptLabel,
				name:        "New Concept Fields (Required)",
				description: "Enter the default field used in the prompt for new concepts",
				input:       label,
			},
		},
		styles: defaultStyles(),
	}
}

// Init starts the cursor blink and, when watching, waits for a reload.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForReload())
}

func (m Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return SettingsReloadedMsg{}
	}
}

// Handle applies one field change to the store and saves immediately.
// Values are stored exactly as typed.
func (m Model) Handle(msg FieldChangedMsg) error {
	var setErr error
	_, err := m.store.Update(func(s *settings.Settings) {
		setErr = s.Set(msg.Field, msg.Value)
	})
	if setErr != nil {
		return setErr
	}
	return err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down", "enter":
			m.setFocus((m.focus + 1) % len(m.entries))
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + len(m.entries) - 1) % len(m.entries))
			return m, nil
		}

		e := &m.entries[m.focus]
		before := e.input.Value()
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		if after := e.input.Value(); after != before {
			m.err = m.Handle(FieldChangedMsg{Field: e.field, Value: after})
		}
		return m, cmd

	case FieldChangedMsg:
		m.err = m.Handle(msg)
		return m, nil

	case SettingsReloadedMsg:
		if s, changed := m.store.Reload(); changed {
			m.show(s)
		}
		return m, m.waitForReload()
	}

	var cmd tea.Cmd
	e := &m.entries[m.focus]
	e.input, cmd = e.input.Update(msg)
	return m, cmd
}

// show puts s into the fields, leaving unchanged ones (and their cursors)
// alone.
func (m *Model) show(s settings.Settings) {
	for i := range m.entries {
		v, _ := s.Get(m.entries[i].field)
		if m.entries[i].input.Value() != v {
			m.entries[i].input.SetValue(v)
		}
	}
}

func (m *Model) setFocus(i int) {
	m.entries[m.focus].input.Blur()
	m.focus = i
	m.entries[m.focus].input.Focus()
}

// View renders the panel.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Settings for ML Summary"))
	b.WriteString("\n")

	for _, e := range m.entries {
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n",
			m.styles.name.Render(e.name),
			m.styles.description.Render(e.description),
			e.input.View())
	}

	if m.err != nil {
		b.WriteString(m.styles.err.Render("save failed: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.help.Render("tab: next field • esc: close"))
	b.WriteString("\n")
	return b.String()
}

// Focused returns the field being edited.
func (m Model) Focused() settings.Field {
	return m.entries[m.focus].field
}

// Value returns the text currently shown for field f.
func (m Model) Value(f settings.Field) string {
	for _, e := range m.entries {
		if e.field == f {
			return e.input.Value()
		}
	}
	return ""
}

// Err returns the last save error, if any.
func (m Model) Err() error {
	return m.err
}

// Run shows the panel on the terminal until the user closes it. Changes
// written to dataPath by other programs are picked up while it is open.
func Run(ctx context.Context, store *settings.Store, dataPath string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reloads, err := settings.Watch(ctx, dataPath, logger)
	if err != nil {
		logger.Warn("settings reload disabled", zap.Error(err))
		reloads = nil
	}

	final, err := tea.NewProgram(New(store, reloads), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
