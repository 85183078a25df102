package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/model"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with the backend" }
func (c *LoginCmd) Usage() string {
	return "taskman login [common flags] --email <email> --password <password>"
}
func (c *LoginCmd) NeedsSession() bool { return true }

func (c *LoginCmd) Route() guard.Route {
	return guard.Route{Path: guard.LoginPath, RequiresGuest: true}
}

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: email and password required")
		return exitcode.UserError
	}

	res := app.Session.Login(ctx, model.Credentials{Email: c.email, Password: c.password})
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", res.Error)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		if user := app.Session.Snapshot().User; user != nil {
			fmt.Fprintf(out, "logged in as %s\n", user.Email)
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
