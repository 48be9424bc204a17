package cat

import (
	"flag"
	"fmt"
	"io"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
	"github.com/keshon/coderepo/internal/object"
)

type Command struct {
	project string
	branch  string
}

func (c *Command) Name() string      { return "cat" }
func (c *Command) Short() string     { return "c" }
func (c *Command) Aliases() []string { return []string{"show"} }
func (c *Command) Usage() string     { return "cat <blob-id> | cat -p <project> [-b <branch>] <path>" }
func (c *Command) Brief() string     { return "Print the content of a file" }
func (c *Command) Help() string {
	return `Print file content.

With a blob identity, prints that blob. With -p, the argument is a path
resolved in the latest commit of the branch.

Options:
  -p <project>   Project as owner/name, or a name owned by the current author.
  -b <branch>    Branch to read (default branch if omitted).`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "p", "", "project (owner/name)")
	fs.StringVar(&c.branch, "b", "", "branch name")
}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	r, err := ctx.Repository()
	if err != nil {
		return err
	}

	var blob *object.Blob
	if c.project == "" {
		blob, err = r.BlobByID(ctx.Args[0])
	} else {
		p, perr := ctx.Project(c.project)
		if perr != nil {
			return perr
		}
		branch, berr := ctx.Branch(c.branch)
		if berr != nil {
			return berr
		}
		blob, err = r.ResolveFile(p, branch, ctx.Args[0])
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(ctx.Stdout, blob.Content)
	return err
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithArgsLog(),
		),
	)
}
