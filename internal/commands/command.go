// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskman/internal/config"
	"taskman/internal/guard"
	"taskman/internal/session"
	"taskman/internal/tasks"
)

// App bundles the process-wide stores a command operates on. Constructed
// once per invocation by the dispatcher's factory.
type App struct {
	Session *session.Store
	Tasks   *tasks.Store
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Route returns the navigation requirements evaluated by the guard
	// before the command runs.
	Route() guard.Route

	// NeedsSession reports whether Run uses the session-backed App.
	// Commands like help and version return false and receive a nil app.
	NeedsSession() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, base URL, flags).
	// app is nil if NeedsSession() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int
}
