package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/output"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command: print one task in full.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"get"} }
func (c *ShowCmd) Synopsis() string   { return "Print a single task" }
func (c *ShowCmd) Usage() string      { return "taskman show [common flags] <id>" }
func (c *ShowCmd) NeedsSession() bool { return true }

func (c *ShowCmd) Route() guard.Route {
	return guard.Route{Path: guard.TasksPath, RequiresAuth: true}
}

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}

	res := app.Tasks.FetchTask(ctx, args[0])
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", res.Error)
		return exitcode.BackendError
	}

	output.FormatTaskDetail(out, *res.Task)
	return exitcode.Success
}
