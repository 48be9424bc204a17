package help

import (
	"flag"
	"fmt"
	"strings"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "help" }
func (c *Command) Short() string     { return "H" }
func (c *Command) Aliases() []string { return []string{"h", "?"} }
func (c *Command) Usage() string     { return "help [command]" }
func (c *Command) Brief() string     { return "Show help for commands" }
func (c *Command) Help() string {
	return `Display help information for commands.

Usage:
  help          List all commands.
  help <name>   Show detailed help for a specific command.`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet)         {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) > 0 {
		return runCommandHelp(ctx, ctx.Args[0])
	}
	return runListAllCommands(ctx)
}

// runCommandHelp shows detailed help for a specific command
func runCommandHelp(ctx *command.Context, name string) error {
	cmd, ok := command.GetCommand(name)
	if !ok {
		return fmt.Errorf("%w: %s", command.ErrUnknownCommand, name)
	}

	if usage := cmd.Usage(); usage != "" {
		fmt.Fprintf(ctx.Stdout, "\033[90mUsage:\033[0m %s\n\n", usage)
	}
	fmt.Fprintf(ctx.Stdout, "%s\n\n", cmd.Help())

	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(ctx.Stdout, "Aliases: %s\n", strings.Join(aliases, ", "))
	}
	return nil
}

// runListAllCommands lists all commands in a Git-style layout
func runListAllCommands(ctx *command.Context) error {
	commands := command.AllCommands()

	fmt.Fprint(ctx.Stdout, "Available commands:\n\n")
	longest := 0
	for _, cmd := range commands {
		if l := len(cmd.Name()); l > longest {
			longest = l
		}
	}

	for _, cmd := range commands {
		name := cmd.Name()
		desc := cmd.Brief()
		if desc == "" {
			desc = "-"
		}

		padding := strings.Repeat(" ", longest-len(name)+2)
		fmt.Fprintf(ctx.Stdout, "  \033[1m%s\033[0m%s%s\n", name, padding, desc)
	}

	fmt.Fprintln(ctx.Stdout, "\nType 'help <command>' to see detailed information about a specific command.")
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
