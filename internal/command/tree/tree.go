package tree

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/repo"
)

type Command struct {
	project string
	branch  string
	id      string
	ids     bool
}

func (c *Command) Name() string      { return "tree" }
func (c *Command) Short() string     { return "T" }
func (c *Command) Aliases() []string { return []string{"ls"} }
func (c *Command) Usage() string     { return "tree (-p <project> [-b <branch>] | --id <tree-id>) [--ids]" }
func (c *Command) Brief() string     { return "Print the file tree of a branch or tree object" }
func (c *Command) Help() string {
	return `Print a directory tree.

Options:
  -p <project>   Project as owner/name, or a name owned by the current author.
  -b <branch>    Branch to read (default branch if omitted).
  --id <id>      Print the tree with this identity instead of a branch.
  --ids          Show object identities next to each entry.

Examples:
  coderepo tree -p alice/demo
  coderepo tree -p alice/demo -b dev --ids
  coderepo tree --id 3f2a...`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "p", "", "project (owner/name)")
	fs.StringVar(&c.branch, "b", "", "branch name")
	fs.StringVar(&c.id, "id", "", "tree identity")
	fs.BoolVar(&c.ids, "ids", false, "show identities")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := ctx.Repository()
	if err != nil {
		return err
	}

	var root *object.Tree
	if c.id != "" {
		root, err = r.TreeByID(c.id)
	} else {
		p, perr := ctx.Project(c.project)
		if perr != nil {
			return perr
		}
		branch, berr := ctx.Branch(c.branch)
		if berr != nil {
			return berr
		}
		root, err = r.ResolveTree(p, branch)
	}
	if err != nil {
		if object.IsNotFound(err) {
			fmt.Fprintln(ctx.Stdout, "No tree found")
			return nil
		}
		return err
	}

	return Print(ctx.Stdout, r, root, c.ids)
}

// Print writes t and everything below it, one entry per line. Directories
// end with "/" and are listed after the files of their parent.
func Print(w io.Writer, r *repo.Repository, t *object.Tree, ids bool) error {
	fmt.Fprintln(w, label(t.DirName, t.ID, ids))
	return printChildren(w, r, t, 1, ids)
}

func printChildren(w io.Writer, r *repo.Repository, t *object.Tree, depth int, ids bool) error {
	indent := strings.Repeat("  ", depth)
	for _, b := range t.Blobs {
		fmt.Fprintf(w, "%s%s\n", indent, label(b.Name, b.ID, ids))
	}
	for _, ref := range t.Trees {
		sub, err := r.TreeByID(ref.ID)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", ref.Name, err)
		}
		fmt.Fprintf(w, "%s%s\n", indent, label(ref.Name+"/", ref.ID, ids))
		if err := printChildren(w, r, sub, depth+1, ids); err != nil {
			return err
		}
	}
	return nil
}

func label(name, id string, ids bool) string {
	if !ids {
		return name
	}
	return fmt.Sprintf("%s \033[90m%s\033[0m", name, id)
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithArgsLog(),
		),
	)
}
