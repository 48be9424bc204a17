package cat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/command/commandtest"
	"github.com/keshon/coderepo/internal/object"
)

func TestCatCommand(t *testing.T) {
	r := commandtest.NewRepo(t)
	project := object.Project{Owner: "alice", Name: "demo"}
	_, err := r.Commit(project, "master", []object.FileEdit{{Path: "x/f.txt", Content: "hello\n"}}, "init")
	require.NoError(t, err)

	out, err := commandtest.Run(t, r, &Command{}, "", "-p", "alice/demo", "/x/f.txt")
	require.NoError(t, err)
	require.Equal(t, "hello\n", out)

	root, err := r.ResolveTree(project, "master")
	require.NoError(t, err)
	x, err := r.TreeByID(root.Trees[0].ID)
	require.NoError(t, err)

	out, err = commandtest.Run(t, r, &Command{}, "", x.Blobs[0].ID)
	require.NoError(t, err)
	require.Equal(t, "hello\n", out)

	_, err = commandtest.Run(t, r, &Command{}, "", "-p", "alice/demo", "x/missing.txt")
	require.ErrorIs(t, err, object.ErrNotFound)

	_, err = commandtest.Run(t, r, &Command{}, "")
	require.ErrorContains(t, err, "usage")
}
