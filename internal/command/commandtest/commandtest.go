// Package commandtest builds command contexts over an in-memory repository.
package commandtest

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/commit"
	"github.com/keshon/coderepo/internal/config"
	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/logger"
	"github.com/keshon/coderepo/internal/repo"
)

// Author owns every commit made through a test repository.
const Author = "alice"

// NewRepo opens an in-memory repository.
func NewRepo(t *testing.T) *repo.Repository {
	t.Helper()
	r, err := repo.Open(config.NewRepoConfig("/repo"), &repo.Options{
		FS:      fs.NewMemoryFS(),
		Authors: commit.StaticAuthor(Author),
	})
	require.NoError(t, err)
	return r
}

// Run parses args with cmd's flags and runs it against r. It returns
// what the command printed.
func Run(t *testing.T, r *repo.Repository, cmd command.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	fset := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.Flags(fset)
	require.NoError(t, fset.Parse(args))

	var out bytes.Buffer
	ctx := &command.Context{
		Args:   fset.Args(),
		Flags:  fset,
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Log:    logger.Nop(),
		Open:   func() (*repo.Repository, error) { return r, nil },
	}
	err := cmd.Run(ctx)
	return out.String(), err
}
