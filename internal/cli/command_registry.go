package cli

import (
	"context"
	"sort"

	"timecard/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a registry holding every command of app
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	registry.Register("clock-in", NewClockInCommand(app))
	registry.Register("clock-out", NewClockOutCommand(app))
	registry.Register("status", NewStatusCommand(app))
	registry.Register("active", NewActiveCommand(app))
	registry.Register("manual", NewManualCommand(app))
	registry.Register("edit", NewEditCommand(app, false))
	registry.Register("admin-edit", NewEditCommand(app, true))
	registry.Register("delete", NewDeleteCommand(app))
	registry.Register("entries", NewEntriesCommand(app))
	registry.Register("stats", NewStatsCommand(app))
	registry.Register("report", NewReportCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Get returns the named command
func (r *CommandRegistry) Get(name string) (Command, bool) {
	command, exists := r.commands[name]
	return command, exists
}

// Names lists the registered commands alphabetically
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}
