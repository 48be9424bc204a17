package help

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/command/commandtest"
)

func TestHelpCommand(t *testing.T) {
	r := commandtest.NewRepo(t)

	out, err := commandtest.Run(t, r, &Command{}, "")
	require.NoError(t, err)
	require.Contains(t, out, "Available commands:")
	require.Contains(t, out, "Show help for commands")

	out, err = commandtest.Run(t, r, &Command{}, "", "?")
	require.NoError(t, err)
	require.Contains(t, out, "help [command]")
	require.Contains(t, out, "Aliases: h, ?")

	_, err = commandtest.Run(t, r, &Command{}, "", "nope")
	require.ErrorIs(t, err, command.ErrUnknownCommand)
}
