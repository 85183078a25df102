package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command. Logout always succeeds: the
// server call is best-effort and local state is cleared regardless.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Clear the stored session" }
func (c *LogoutCmd) Usage() string      { return "taskman logout [common flags]" }
func (c *LogoutCmd) NeedsSession() bool { return true }
func (c *LogoutCmd) Route() guard.Route { return guard.Route{} }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if !app.Session.IsAuthenticated() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	app.Session.Logout(ctx)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
