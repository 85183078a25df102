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
	Register(&EditCmd{})
}

// EditCmd implements the edit command: a partial update carrying only the
// flags that were given. Empty flags mean "leave unchanged".
type EditCmd struct {
	title       string
	description string
	status      string
	priority    string
	due         string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Update a task" }
func (c *EditCmd) Usage() string {
	return "taskman edit [common flags] [--title <text>] [--description <text>] [--status <s>] [--priority <p>] [--due <date>] <id>"
}
func (c *EditCmd) NeedsSession() bool { return true }

func (c *EditCmd) Route() guard.Route {
	return guard.Route{Path: guard.TasksPath, RequiresAuth: true}
}

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}

	var in model.UpdateTaskInput
	if c.title != "" {
		in.Title = &c.title
	}
	if c.description != "" {
		in.Description = &c.description
	}
	if c.status != "" {
		if !model.ValidStatus(model.TaskStatus(c.status)) {
			fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
			return exitcode.UserError
		}
		status := model.TaskStatus(c.status)
		in.Status = &status
	}
	if c.priority != "" {
		if !model.ValidPriority(model.TaskPriority(c.priority)) {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return exitcode.UserError
		}
		priority := model.TaskPriority(c.priority)
		in.Priority = &priority
	}
	if c.due != "" {
		in.DueDate = &c.due
	}
	if in == (model.UpdateTaskInput{}) {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}

	res := app.Tasks.UpdateTask(ctx, args[0], in)
	if !res.Success {
		return printMutationFailure(res, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
