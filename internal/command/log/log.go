package log

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
)

type Command struct {
	project string
	branch  string
	oneline bool
	limit   int
}

func (c *Command) Name() string      { return "log" }
func (c *Command) Short() string     { return "L" }
func (c *Command) Aliases() []string { return []string{"commits"} }
func (c *Command) Usage() string     { return "log -p <project> [-b <branch>] [options]" }
func (c *Command) Brief() string     { return "Show commit history of a branch" }
func (c *Command) Help() string {
	return `Show commit logs, latest first.

Options:
  -p <project>    Project as owner/name, or a name owned by the current author.
  -b <branch>     Branch to read (default branch if omitted).
      --oneline   Show each commit as a single line (ID + message).
  -n <count>      Limit to the last N commits.

Examples:
  coderepo log -p alice/demo
  coderepo log -p alice/demo -b dev --oneline -n 10`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "p", "", "project (owner/name)")
	fs.StringVar(&c.branch, "b", "", "branch name")
	fs.BoolVar(&c.oneline, "oneline", false, "show each commit on one line")
	fs.IntVar(&c.limit, "n", 0, "limit number of commits")
}

func (c *Command) Run(ctx *command.Context) error {
	p, err := ctx.Project(c.project)
	if err != nil {
		return err
	}
	branch, err := ctx.Branch(c.branch)
	if err != nil {
		return err
	}
	r, err := ctx.Repository()
	if err != nil {
		return err
	}

	commits, err := r.History(p, branch, c.limit)
	if err != nil {
		return fmt.Errorf("failed to get commits for branch %q: %w", branch, err)
	}
	if len(commits) == 0 {
		fmt.Fprintln(ctx.Stdout, "No commits found")
		return nil
	}

	out := ctx.Stdout
	for _, cmt := range commits {
		if c.oneline {
			fmt.Fprintf(out, "%s %s\n", cmt.ID, strings.SplitN(cmt.Message, "\n", 2)[0])
			continue
		}

		fmt.Fprintf(out, "\033[90mCommit:\033[0m %s\n", cmt.ID)
		fmt.Fprintf(out, "\033[90mAuthor:\033[0m %s\n", cmt.Author)
		if cmt.PreviousCommit != "" {
			fmt.Fprintf(out, "\033[90mParent:\033[0m %s\n", cmt.PreviousCommit)
		}
		if t, err := time.Parse(time.RFC3339, cmt.Timestamp); err == nil {
			fmt.Fprintf(out, "\033[90mDate:\033[0m   %s\n", t.Format("Mon Jan 2 15:04:05 2006"))
		}
		fmt.Fprintln(out)
		for _, line := range strings.Split(cmt.Message, "\n") {
			if strings.TrimSpace(line) == "" {
				fmt.Fprintln(out)
			} else {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Total commits: %d\n", len(commits))
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
