package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"taskman/internal/config"
	"taskman/internal/exitcode"
	"taskman/internal/guard"
	"taskman/internal/model"
	"taskman/internal/output"
	"taskman/internal/tasks"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	status      string
	priority    string
	due         string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskman add [common flags] [--description <text>] [--status <s>] [--priority <p>] [--due <date>] <title...>"
}
func (c *AddCmd) NeedsSession() bool { return true }

func (c *AddCmd) Route() guard.Route {
	return guard.Route{Path: guard.TasksPath, RequiresAuth: true}
}

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.status, "status", string(model.StatusPending), "")
	fs.StringVar(&c.priority, "priority", string(model.PriorityMedium), "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if !model.ValidStatus(model.TaskStatus(c.status)) {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return exitcode.UserError
	}
	if !model.ValidPriority(model.TaskPriority(c.priority)) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	res := app.Tasks.CreateTask(ctx, model.CreateTaskInput{
		Title:       title,
		Description: c.description,
		Status:      model.TaskStatus(c.status),
		Priority:    model.TaskPriority(c.priority),
		DueDate:     c.due,
	})
	if !res.Success {
		return printMutationFailure(res, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created #%s\n", res.Task.ID)
	}
	return exitcode.Success
}

// printMutationFailure reports a failed create/update/delete. Validation
// failures list the offending fields and count as user errors.
func printMutationFailure(res tasks.Result, errOut io.Writer) int {
	fmt.Fprintf(errOut, "error: %s\n", res.Error)
	if len(res.FieldErrors) > 0 {
		fields := make([]string, 0, len(res.FieldErrors))
		for f := range res.FieldErrors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		output.FormatFieldErrors(errOut, fields, res.FieldErrors)
		return exitcode.UserError
	}
	return exitcode.BackendError
}
