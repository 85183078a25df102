package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskman/internal/api"
	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/output"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command: fetch and print the current
// user from the backend.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return []string{"me"} }
func (c *WhoamiCmd) Synopsis() string   { return "Print the authenticated user" }
func (c *WhoamiCmd) Usage() string      { return "taskman whoami [common flags]" }
func (c *WhoamiCmd) NeedsSession() bool { return true }

func (c *WhoamiCmd) Route() guard.Route {
	return guard.Route{Path: guard.TasksPath, RequiresAuth: true}
}

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	user, err := app.Session.RefreshUser(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			fmt.Fprintln(errOut, "error: session expired (run: taskman login)")
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	output.FormatUser(out, user)
	return exitcode.Success
}
