// Package host defines the narrow surface mls needs from the note-taking
// application that drives it, plus filesystem-backed implementations that
// work directly on an Obsidian vault directory.
package host

import "context"

// Editor exposes the active editor's selection.
type Editor interface {
	Selection() string
	ReplaceSelection(text string)
}

// Vault creates documents and folders relative to the vault root.
type Vault interface {
	// Create writes a new file and fails if one already exists at path.
	Create(path, content string) error
	CreateFolder(path string) error
}

// Notifier shows transient, non-blocking messages to the user.
type Notifier interface {
	Notice(msg string)
}

// StatusBar holds a single line of status text.
type StatusBar interface {
	SetText(text string)
}

// DataStore is the host's persisted key-value slot for plugin settings.
// LoadData returns nil data when nothing has been saved yet.
type DataStore interface {
	LoadData() ([]byte, error)
	SaveData(data []byte) error
}

// Invocation carries the per-call host objects a command may touch.
// Editor is nil for commands that do not need one.
type Invocation struct {
	Editor Editor
}

// Command is a registered plugin command.
type Command struct {
	ID   string
	Name string
	// EditorCommand commands are only available with an active editor.
	EditorCommand bool
	Run           func(ctx context.Context, inv Invocation) error
}
