package branch

import (
	"flag"
	"fmt"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
)

type Command struct {
	project string
}

func (c *Command) Name() string      { return "branch" }
func (c *Command) Short() string     { return "B" }
func (c *Command) Aliases() []string { return []string{"br"} }
func (c *Command) Usage() string     { return "branch -p <project> [name]" }
func (c *Command) Brief() string     { return "List branches or create a new one" }
func (c *Command) Help() string {
	return `List branches of a project, or create one.

Without a name, lists all branches; the default branch is marked with "*".
With a name, creates the branch at the default branch's latest commit.
The default branch itself is created empty when it does not exist yet.

Options:
  -p <project>   Project as owner/name, or a name owned by the current author.`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "p", "", "project (owner/name)")
}

func (c *Command) Run(ctx *command.Context) error {
	p, err := ctx.Project(c.project)
	if err != nil {
		return err
	}
	r, err := ctx.Repository()
	if err != nil {
		return err
	}

	if len(ctx.Args) > 0 {
		b, err := r.CreateBranch(p, ctx.Args[0])
		if err != nil {
			return err
		}
		if b.HasCommits() {
			fmt.Fprintf(ctx.Stdout, "Created branch %s at %s\n", b.Name, b.LatestCommit)
		} else {
			fmt.Fprintf(ctx.Stdout, "Created empty branch %s\n", b.Name)
		}
		return nil
	}

	branches, err := r.Branches(p)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		fmt.Fprintln(ctx.Stdout, "No branches")
		return nil
	}
	for _, b := range branches {
		marker := " "
		if b.Name == r.Config.DefaultBranch {
			marker = "*"
		}
		tip := "(no commits)"
		if b.HasCommits() {
			tip = b.LatestCommit
		}
		fmt.Fprintf(ctx.Stdout, "%s %s %s\n", marker, b.Name, tip)
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
