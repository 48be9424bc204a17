package middleware

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/command"
	"github.com/keshon/coderepo/internal/logger"
)

type noop struct{ ran bool }

func (n *noop) Name() string                   { return "noop" }
func (n *noop) Short() string                  { return "" }
func (n *noop) Aliases() []string              { return nil }
func (n *noop) Usage() string                  { return "" }
func (n *noop) Brief() string                  { return "" }
func (n *noop) Help() string                   { return "" }
func (n *noop) Subcommands() []command.Command { return nil }
func (n *noop) Flags(*flag.FlagSet)            {}
func (n *noop) Run(*command.Context) error     { n.ran = true; return nil }

func TestWithArgsLog(t *testing.T) {
	t.Run("verbose logs the args", func(t *testing.T) {
		var buf bytes.Buffer
		inner := &noop{}
		cmd := command.ApplyMiddlewares(inner, WithArgsLog())

		err := cmd.Run(&command.Context{Args: []string{"a b", "c"}, Log: logger.New(&buf, true)})
		require.NoError(t, err)
		require.True(t, inner.ran)
		require.Contains(t, buf.String(), `run noop args=[\"a b\" \"c\"]`)
	})

	t.Run("quiet stays quiet", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := command.ApplyMiddlewares(&noop{}, WithArgsLog())
		require.NoError(t, cmd.Run(&command.Context{Log: logger.New(&buf, false)}))
		require.Empty(t, buf.String())
	})

	t.Run("no logger", func(t *testing.T) {
		inner := &noop{}
		require.NoError(t, command.ApplyMiddlewares(inner, WithArgsLog()).Run(&command.Context{}))
		require.True(t, inner.ran)
	})
}
