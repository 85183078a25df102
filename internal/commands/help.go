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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskman help" }
func (c *HelpCmd) NeedsSession() bool { return false }
func (c *HelpCmd) Route() guard.Route { return guard.Route{} }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, app *App, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskman                                       List tasks (current filters)
  taskman list [filter flags]                   List tasks
  taskman show <id>                             Print a single task
  taskman add [task flags] <title...>           Create a task
  taskman edit [task flags] <id>                Update a task
  taskman done <id>                             Mark a task completed
  taskman rm <id>                               Delete a task
  taskman login --email <e> --password <p>      Authenticate
  taskman register --name <n> --email <e> --password <p>
  taskman logout                                Clear the stored session
  taskman whoami                                Print the authenticated user
  taskman help
  taskman version

Filter flags (list):
  --status <pending|in_progress|completed>
  --priority <low|medium|high>
  --search <text>
  --due-from <YYYY-MM-DD>   --due-to <YYYY-MM-DD>
  --sort <field>            --order <asc|desc>
  --page <n>                --per-page <n>

Task flags (add, edit):
  --title <text> (edit only)
  --description <text>
  --status <s>  --priority <p>  --due <YYYY-MM-DD>

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
