package commit

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
	"github.com/keshon/coderepo/internal/object"
)

type Command struct {
	project string
	branch  string
	message string
}

func (c *Command) Name() string      { return "commit" }
func (c *Command) Short() string     { return "C" }
func (c *Command) Aliases() []string { return []string{"ci"} }
func (c *Command) Usage() string {
	return "commit -p <project> [-b <branch>] -m <message> <edits.json|->"
}
func (c *Command) Brief() string { return "Record a change set on a branch" }
func (c *Command) Help() string {
	return `Record a change set as a new commit.

The change set is a JSON array of file edits read from a file, or from
standard input when the argument is "-":

  [
    {"content": "a", "path": "/x/f.txt"},
    {"content": "b", "path": "/y/g.txt", "previousPath": "/x/f.txt"},
    {"path": "/docs/"}
  ]

A previousPath different from path removes the old file. A path ending
with "/" only creates the directory.

Options:
  -p <project>   Project as owner/name, or a name owned by the current author.
  -b <branch>    Branch to commit to (default branch if omitted).
  -m <message>   Commit message.`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "p", "", "project (owner/name)")
	fs.StringVar(&c.branch, "b", "", "branch name")
	fs.StringVar(&c.message, "m", "", "commit message")
}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	if strings.TrimSpace(c.message) == "" {
		return fmt.Errorf("commit message is required (-m)")
	}

	edits, err := readEdits(ctx, ctx.Args[0])
	if err != nil {
		return err
	}

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

	cmt, err := r.Commit(p, branch, edits, c.message)
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	fmt.Fprintf(ctx.Stdout, "[%s %s] %s\n", branch, cmt.ID, firstLine(cmt.Message))
	fmt.Fprintf(ctx.Stdout, " %d edit(s), root tree %s\n", len(edits), cmt.CodeRoot)
	return nil
}

func readEdits(ctx *command.Context, name string) ([]object.FileEdit, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		if ctx.Stdin == nil {
			return nil, fmt.Errorf("no standard input available")
		}
		data, err = io.ReadAll(ctx.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read edits: %w", err)
	}

	var edits []object.FileEdit
	if err := json.Unmarshal(data, &edits); err != nil {
		return nil, fmt.Errorf("failed to parse edits: %w", err)
	}
	return edits, nil
}

func firstLine(s string) string {
	return strings.SplitN(s, "\n", 2)[0]
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithArgsLog(),
		),
	)
}
