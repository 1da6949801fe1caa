package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"timecard/internal/api"
	"timecard/internal/config"
	"timecard/internal/errors"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the main CLI application
type App struct {
	engine   api.Engine
	config   *config.Config
	out      io.Writer
	errors   *ErrorHandler
	registry *CommandRegistry
}

// NewApp creates a new CLI application writing to out. The engine may be
// attached later with SetEngine.
func NewApp(engine api.Engine, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		engine: engine,
		config: cfg,
		out:    out,
		errors: NewErrorHandler(),
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// SetEngine attaches the engine commands run against
func (a *App) SetEngine(engine api.Engine) {
	a.engine = engine
}

// Registry returns the command registry
func (a *App) Registry() *CommandRegistry {
	return a.registry
}

// Run executes the CLI application with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: timecard <command> [args]\n\ncommands: %s", strings.Join(a.registry.Names(), ", "))
	}
	return a.registry.Execute(ctx, args[0], args[1:])
}

// userID is the staff member commands act for
func (a *App) userID() (string, error) {
	if a.config.Application.UserID == "" {
		return "", errors.NewInvalidInputError("user", "", "no user given, pass --user or set TC_USER")
	}
	return a.config.Application.UserID, nil
}

// location is the zone dates are read and printed in
func (a *App) location() *time.Location {
	loc, err := a.config.GetLocation()
	if err != nil {
		return time.Local
	}
	return loc
}

// now is the current instant in the configured zone
func (a *App) now() time.Time {
	return timeNow().In(a.location())
}

// parseKeyValues splits key=value arguments, rejecting unknown keys
func parseKeyValues(args []string, allowed ...string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.NewInvalidInputError("argument", arg, "expected key=value")
		}
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return nil, errors.NewInvalidInputError("argument", key, "must be one of "+strings.Join(allowed, ", "))
		}
		values[key] = value
	}
	return values, nil
}
