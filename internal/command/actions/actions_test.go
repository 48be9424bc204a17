package actions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/command/commandtest"
	"github.com/keshon/coderepo/internal/object"
)

func TestActionsCommand(t *testing.T) {
	r := commandtest.NewRepo(t)

	out, err := commandtest.Run(t, r, &Command{}, "")
	require.NoError(t, err)
	require.Equal(t, "No actions recorded\n", out)

	_, err = r.Commit(object.Project{Owner: "alice", Name: "demo"}, "master", []object.FileEdit{{Path: "f"}}, "one")
	require.NoError(t, err)
	_, err = r.Commit(object.Project{Owner: "alice", Name: "tools"}, "master", []object.FileEdit{{Path: "f"}}, "one")
	require.NoError(t, err)
	_, err = r.Actions.Record("signup", "bob", "")
	require.NoError(t, err)

	out, err = commandtest.Run(t, r, &Command{}, "")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)

	out, err = commandtest.Run(t, r, &Command{}, "", "--project", "alice/demo")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "commit")
	require.Contains(t, lines[0], "alice/demo")

	out, err = commandtest.Run(t, r, &Command{}, "", "--profile", "bob")
	require.NoError(t, err)
	require.Contains(t, out, "signup")
	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "-"))

	out, err = commandtest.Run(t, r, &Command{}, "", "--profile", "bob", "--project", "alice/demo")
	require.NoError(t, err)
	require.Equal(t, "No actions recorded\n", out)
}
