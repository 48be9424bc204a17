package main

import (
	"os"

	"github.com/keshon/coderepo/internal/command"

	_ "github.com/keshon/coderepo/internal/command/actions"
	_ "github.com/keshon/coderepo/internal/command/branch"
	_ "github.com/keshon/coderepo/internal/command/cat"
	_ "github.com/keshon/coderepo/internal/command/commit"
	_ "github.com/keshon/coderepo/internal/command/help"
	_ "github.com/keshon/coderepo/internal/command/log"
	_ "github.com/keshon/coderepo/internal/command/tree"
	_ "github.com/keshon/coderepo/internal/command/verify"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"help"}
	}
	command.RunCLI(args)
}
