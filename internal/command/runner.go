package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/keshon/coderepo/internal/logger"
	"github.com/keshon/coderepo/internal/repo"
)

// Env carries the process surroundings of one invocation.
type Env struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Open    func() (*repo.Repository, error)
	Verbose bool
}

// Execute resolves args against the registered commands, parses the
// target's flags and runs it.
func Execute(args []string, env Env) error {
	for len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		env.Verbose = true
		args = args[1:]
	}
	if len(args) == 0 {
		return errors.New("no command provided")
	}

	node, remaining, err := ResolveCommand(args)
	if err != nil {
		return fmt.Errorf("%w: %s", err, args[0])
	}
	cmd := node.Cmd

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	cmd.Flags(fs)
	if err := fs.Parse(remaining); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	ctx := &Context{
		Args:   fs.Args(),
		Flags:  fs,
		Stdin:  env.Stdin,
		Stdout: env.Stdout,
		Log:    logger.New(env.Stderr, env.Verbose),
		Open:   env.Open,
	}
	defer ctx.close()

	return cmd.Run(ctx)
}

// RunCLI is the main entrypoint for executing commands.
// It parses arguments, resolves subcommands, applies flags, and runs the target command.
func RunCLI(args []string) {
	err := Execute(args, Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Open:   repo.OpenDefault,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
