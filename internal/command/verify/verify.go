package verify

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
	"github.com/keshon/coderepo/internal/progress"
	"github.com/keshon/coderepo/internal/verify"
)

type Command struct {
	project string
	all     bool
	quiet   bool
}

func (c *Command) Name() string      { return "verify" }
func (c *Command) Short() string     { return "V" }
func (c *Command) Aliases() []string { return []string{"scan", "check"} }
func (c *Command) Usage() string     { return "verify -p <project> [--all] [--quiet]" }
func (c *Command) Brief() string     { return "Verify that every stored object of a project is intact" }
func (c *Command) Help() string {
	return `Verify repository integrity.

Reads every commit, tree and file reachable from the branches of a
project and reports objects that are missing or cannot be decoded. In
content identity mode each object is also re-hashed.

Options:
  -p <project>   Project as owner/name, or a name owned by the current author.
  --all          Check the whole history, not only the latest commits.
  --quiet        Do not show the progress line.`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "p", "", "project (owner/name)")
	fs.BoolVar(&c.all, "all", false, "check the whole history")
	fs.BoolVar(&c.quiet, "quiet", false, "no progress output")
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

	scanner := verify.NewScanner(r.Store.Objects, r.Store.Branches, r.Store.Objects.IDs)
	out, errCh := scanner.Stream(p, c.all)

	var bar *progress.ProgressTracker
	if !c.quiet {
		bar = progress.NewProgress(ctx.Stdout, 0, "Checking objects", "objects")
	}

	start := time.Now()
	report := &verify.Report{}
	for check := range out {
		if bar != nil {
			bar.Increment()
		}
		report.Add(check)
	}
	if bar != nil {
		bar.Finish()
	}
	if err := <-errCh; err != nil {
		return err
	}

	printReport(ctx.Stdout, report, time.Since(start))
	if !report.Healthy() {
		return fmt.Errorf("%d object(s) missing or damaged", len(report.Failed))
	}
	return nil
}

func printReport(w io.Writer, report *verify.Report, took time.Duration) {
	for _, f := range report.Failed {
		fmt.Fprintf(w, "\033[31m%-7s\033[0m %-6s %s  %s@%s", f.Status, f.Kind, f.ID, f.Branch, f.Path)
		if f.Err != nil {
			fmt.Fprintf(w, "  (%v)", f.Err)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Scan complete in %s.\n", took.Truncate(time.Millisecond))
	fmt.Fprintf(w, "Objects OK: \033[32m%d\033[0m   Missing: \033[31m%d\033[0m   Damaged: \033[33m%d\033[0m\n",
		report.OK, report.Missing, report.Damaged)
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithArgsLog(),
		),
	)
}
