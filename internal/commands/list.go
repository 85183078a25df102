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
	"taskman/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. Handles both `taskman` (no args)
// and `taskman list` with filter flags. Flags are request-scoped overrides;
// they are not written back to the store's filter state.
type ListCmd struct {
	status   string
	priority string
	search   string
	dueFrom  string
	dueTo    string
	sortBy   string
	order    string
	page     int
	perPage  int
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskman list [common flags] [--status <s>] [--priority <p>] [--search <text>] [--due-from <date>] [--due-to <date>] [--sort <field>] [--order asc|desc] [--page <n>] [--per-page <n>]"
}
func (c *ListCmd) NeedsSession() bool { return true }

func (c *ListCmd) Route() guard.Route {
	return guard.Route{Path: guard.TasksPath, RequiresAuth: true}
}

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.dueFrom, "due-from", "", "")
	fs.StringVar(&c.dueTo, "due-to", "", "")
	fs.StringVar(&c.sortBy, "sort", "", "")
	fs.StringVar(&c.order, "order", "", "")
	fs.IntVar(&c.page, "page", 0, "")
	fs.IntVar(&c.perPage, "per-page", 0, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	overrides, errMsg := c.overrides()
	if errMsg != "" {
		fmt.Fprintf(errOut, "error: %s\n", errMsg)
		return exitcode.UserError
	}

	res := app.Tasks.FetchTasks(ctx, overrides)
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", res.Error)
		return exitcode.BackendError
	}

	state := app.Tasks.Snapshot()
	if len(state.Tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	// Numbers continue across pages: meta.From is the absolute index of
	// the first row on this page.
	start := state.Meta.From
	if start < 1 {
		start = 1
	}
	for i, task := range state.Tasks {
		output.FormatTask(out, start+i, task)
	}
	if !cfg.Quiet {
		output.FormatMeta(out, state.Meta)
	}
	return exitcode.Success
}

// overrides validates the flag values and builds the request-scoped filter
// overrides. Returns a message describing the first invalid flag.
func (c *ListCmd) overrides() (model.FilterParams, string) {
	var p model.FilterParams

	if c.status != "" {
		if !model.ValidStatus(model.TaskStatus(c.status)) {
			return p, fmt.Sprintf("invalid status: %s", c.status)
		}
		p.Status = model.TaskStatus(c.status)
	}
	if c.priority != "" {
		if !model.ValidPriority(model.TaskPriority(c.priority)) {
			return p, fmt.Sprintf("invalid priority: %s", c.priority)
		}
		p.Priority = model.TaskPriority(c.priority)
	}
	if c.sortBy != "" {
		if !model.ValidSortField(c.sortBy) {
			return p, fmt.Sprintf("invalid sort field: %s", c.sortBy)
		}
		p.SortBy = c.sortBy
	}
	if c.order != "" {
		if c.order != "asc" && c.order != "desc" {
			return p, fmt.Sprintf("invalid sort order: %s", c.order)
		}
		p.SortOrder = c.order
	}
	if c.page < 0 {
		return p, fmt.Sprintf("invalid page number: %d", c.page)
	}
	if c.perPage < 0 {
		return p, fmt.Sprintf("invalid page size: %d", c.perPage)
	}

	p.Search = c.search
	p.DueDateFrom = c.dueFrom
	p.DueDateTo = c.dueTo
	p.Page = c.page
	p.PerPage = c.perPage
	return p, ""
}
