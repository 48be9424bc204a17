package actionlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/object"
)

func newLog(t *testing.T) *Log {
	t.Helper()
	l := New(fs.NewMemoryFS(), "/repo/logs")
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return l
}

func TestLog(t *testing.T) {
	t.Run("empty log", func(t *testing.T) {
		l := newLog(t)
		all, err := l.All()
		require.NoError(t, err)
		require.Empty(t, all)
	})

	t.Run("record and get", func(t *testing.T) {
		l := newLog(t)
		e, err := l.Record(ActionCommit, "alice", "alice/demo")
		require.NoError(t, err)
		require.NotEmpty(t, e.ID)

		got, err := l.Get(e.ID)
		require.NoError(t, err)
		require.Equal(t, e, got)
	})

	t.Run("unknown id", func(t *testing.T) {
		l := newLog(t)
		_, err := l.Get("0123")
		require.ErrorIs(t, err, object.ErrNotFound)
		_, err = l.Get("../escape")
		require.ErrorIs(t, err, object.ErrNotFound)
	})

	t.Run("queries filter and order by time", func(t *testing.T) {
		l := newLog(t)
		for _, r := range []struct{ action, profile, project string }{
			{"signup", "alice", ""},
			{ActionCommit, "alice", "alice/demo"},
			{ActionBranch, "bob", "alice/demo"},
			{ActionCommit, "bob", "bob/tools"},
		} {
			_, err := l.Record(r.action, r.profile, r.project)
			require.NoError(t, err)
		}

		actions := func(entries []*Entry, err error) []string {
			require.NoError(t, err)
			var out []string
			for _, e := range entries {
				out = append(out, e.Action+":"+e.ProfileID)
			}
			return out
		}

		require.Equal(t, []string{"signup:alice", "commit:alice", "branch:bob", "commit:bob"}, actions(l.All()))
		require.Equal(t, []string{"signup:alice", "commit:alice"}, actions(l.ByProfile("alice")))
		require.Equal(t, []string{"commit:alice", "branch:bob"}, actions(l.ByProject("alice/demo")))
		require.Equal(t, []string{"branch:bob"}, actions(l.ByProfileAndProject("bob", "alice/demo")))
		require.Empty(t, actions(l.ByProject("nobody/nothing")))
	})
}
