package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoEditor is returned when an editor command is invoked without one.
	ErrNoEditor       = errors.New("command requires an active editor")
	ErrUnknownCommand = errors.New("unknown command")
)

// Registry maps command ids to commands, in registration order.
type Registry struct {
	commands map[string]Command
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command. Ids must be unique.
func (r *Registry) Register(cmd Command) error {
	if cmd.ID == "" {
		return fmt.Errorf("command %q has no id", cmd.Name)
	}
	if _, ok := r.commands[cmd.ID]; ok {
		return fmt.Errorf("command %q already registered", cmd.ID)
	}
	r.commands[cmd.ID] = cmd
	r.order = append(r.order, cmd.ID)
	return nil
}

// Lookup returns the command registered under id.
func (r *Registry) Lookup(id string) (Command, bool) {
	cmd, ok := r.commands[id]
	return cmd, ok
}

// Commands returns all commands in registration order.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.commands[id])
	}
	return out
}

// IDs returns the registered ids sorted alphabetically.
func (r *Registry) IDs() []string {
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}

// Execute runs the command registered under id.
func (r *Registry) Execute(ctx context.Context, id string, inv Invocation) error {
	cmd, ok := r.commands[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	if cmd.EditorCommand && inv.Editor == nil {
		return fmt.Errorf("%s: %w", id, ErrNoEditor)
	}
	return cmd.Run(ctx, inv)
}
