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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: a status-only partial update.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "taskman done [common flags] <id>" }
func (c *DoneCmd) NeedsSession() bool { return true }

func (c *DoneCmd) Route() guard.Route {
	return guard.Route{Path: guard.TasksPath, RequiresAuth: true}
}

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}

	status := model.StatusCompleted
	res := app.Tasks.UpdateTask(ctx, args[0], model.UpdateTaskInput{Status: &status})
	if !res.Success {
		return printMutationFailure(res, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
