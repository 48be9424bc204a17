package actions

import (
	"flag"
	"fmt"
	"time"

	"github.com/keshon/coderepo/internal/actionlog"
	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
)

type Command struct {
	profile string
	project string
}

func (c *Command) Name() string      { return "actions" }
func (c *Command) Short() string     { return "A" }
func (c *Command) Aliases() []string { return []string{"audit"} }
func (c *Command) Usage() string     { return "actions [--profile <name>] [--project <owner/name>]" }
func (c *Command) Brief() string     { return "Show the recorded action log" }
func (c *Command) Help() string {
	return `Show recorded actions, oldest first.

Options:
  --profile <name>          Only actions by this profile.
  --project <owner/name>    Only actions on this project.`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.profile, "profile", "", "filter by profile")
	fs.StringVar(&c.project, "project", "", "filter by project")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repository()
	if err != nil {
		return err
	}

	var entries []*actionlog.Entry
	switch {
	case c.profile != "" && c.project != "":
		entries, err = r.Actions.ByProfileAndProject(c.profile, c.project)
	case c.profile != "":
		entries, err = r.Actions.ByProfile(c.profile)
	case c.project != "":
		entries, err = r.Actions.ByProject(c.project)
	default:
		entries, err = r.Actions.All()
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(ctx.Stdout, "No actions recorded")
		return nil
	}
	for _, e := range entries {
		project := e.ProjectID
		if project == "" {
			project = "-"
		}
		fmt.Fprintf(ctx.Stdout, "%s  %-8s %-12s %s\n", e.Time.Format(time.RFC3339), e.Action, e.ProfileID, project)
	}
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithArgsLog(),
		),
	)
}
