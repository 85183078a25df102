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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskman register [common flags] --name <name> --email <email> --password <password>"
}
func (c *RegisterCmd) NeedsSession() bool { return true }

func (c *RegisterCmd) Route() guard.Route {
	return guard.Route{Path: guard.LoginPath, RequiresGuest: true}
}

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if c.name == "" || c.email == "" || c.password == "" {
		fmt.Fprintln(errOut, "error: name, email and password required")
		return exitcode.UserError
	}

	res := app.Session.Register(ctx, model.RegisterInput{
		Name:     c.name,
		Email:    c.email,
		Password: c.password,
	})
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", res.Error)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered as %s\n", c.email)
	}
	return exitcode.Success
}
