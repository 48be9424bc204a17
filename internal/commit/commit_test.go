package commit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/branch"
	"github.com/keshon/coderepo/internal/config"
	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/store"
)

var project = object.Project{Owner: "alice", Name: "demo"}

type fixture struct {
	st       *store.StoreContext
	resolver *branch.Resolver
	asm      *Assembler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.NewStore(config.NewRepoConfig("/repo"), &store.NewStoreOptions{FS: fs.NewMemoryFS()})
	require.NoError(t, err)

	asm := NewAssembler(st.Objects, st.Branches, StaticAuthor("alice"), nil)
	asm.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{
		st:       st,
		resolver: branch.NewResolver(st.Branches, config.DefaultBranch, nil),
		asm:      asm,
	}
}

func (f *fixture) branch(t *testing.T, name string) *object.Branch {
	t.Helper()
	b, err := f.resolver.Resolve(project, name)
	require.NoError(t, err)
	return b
}

func (f *fixture) stored(t *testing.T, name string) *object.Branch {
	t.Helper()
	b, err := f.st.Branches.Find(project, name)
	require.NoError(t, err)
	return b
}

func TestCommit(t *testing.T) {
	t.Run("records author, message, root and timestamp", func(t *testing.T) {
		f := newFixture(t)
		b := f.branch(t, "master")

		c, err := f.asm.Commit(project, b, []object.FileEdit{{Path: "/x/f.txt", Content: "a"}}, "init")
		require.NoError(t, err)
		require.NotEmpty(t, c.ID)
		require.Equal(t, "alice", c.Author)
		require.Equal(t, "init", c.Message)
		require.Empty(t, c.PreviousCommit)
		require.Equal(t, "2024-05-01T12:00:00Z", c.Timestamp)

		require.Equal(t, c.ID, b.LatestCommit)
		require.Equal(t, c.ID, f.stored(t, "master").LatestCommit)

		stored, err := f.st.Objects.GetCommit(c.ID)
		require.NoError(t, err)
		require.Equal(t, c, stored)
	})

	t.Run("concrete two-commit scenario", func(t *testing.T) {
		f := newFixture(t)
		b := f.branch(t, "master")

		first, err := f.asm.Commit(project, b, []object.FileEdit{{Content: "a", Path: "/x/f.txt"}}, "init")
		require.NoError(t, err)
		second, err := f.asm.Commit(project, b, []object.FileEdit{{Content: "b", Path: "/x/f.txt", PreviousPath: "/x/f.txt"}}, "update")
		require.NoError(t, err)

		require.Equal(t, first.ID, second.PreviousCommit)

		root, err := f.st.Objects.GetTree(second.CodeRoot)
		require.NoError(t, err)
		require.Len(t, root.Trees, 1)
		x, err := f.st.Objects.GetTree(root.Trees[0].ID)
		require.NoError(t, err)
		require.Equal(t, "x", x.DirName)
		require.Len(t, x.Blobs, 1)
		blob, err := f.st.Objects.GetBlob(x.Blobs[0].ID)
		require.NoError(t, err)
		require.Equal(t, "f.txt", blob.FileName)
		require.Equal(t, "b", blob.Content)
	})

	t.Run("empty change set is refused", func(t *testing.T) {
		f := newFixture(t)
		b := f.branch(t, "master")
		c, err := f.asm.Commit(project, b, []object.FileEdit{{Path: "f", Content: "1"}}, "one")
		require.NoError(t, err)

		_, err = f.asm.Commit(project, b, nil, "nothing")
		require.ErrorIs(t, err, object.ErrInvalidOperation)
		require.Equal(t, c.ID, b.LatestCommit)
		require.Equal(t, c.ID, f.stored(t, "master").LatestCommit)
	})

	t.Run("chain integrity", func(t *testing.T) {
		f := newFixture(t)
		b := f.branch(t, "master")

		const n = 5
		for i := 0; i < n; i++ {
			_, err := f.asm.Commit(project, b, []object.FileEdit{{Path: "f.txt", Content: string(rune('a' + i))}}, "step")
			require.NoError(t, err)
		}

		steps := 0
		for id := f.stored(t, "master").LatestCommit; id != ""; steps++ {
			c, err := f.st.Objects.GetCommit(id)
			require.NoError(t, err)
			id = c.PreviousCommit
		}
		require.Equal(t, n, steps)

		history, err := f.asm.History(b.LatestCommit, 0)
		require.NoError(t, err)
		require.Len(t, history, n)
		require.Equal(t, b.LatestCommit, history[0].ID)
		require.Empty(t, history[n-1].PreviousCommit)

		limited, err := f.asm.History(b.LatestCommit, 2)
		require.NoError(t, err)
		require.Equal(t, history[:2], limited)
	})

	t.Run("fork semantics", func(t *testing.T) {
		f := newFixture(t)
		master := f.branch(t, "master")
		base, err := f.asm.Commit(project, master, []object.FileEdit{{Path: "f", Content: "1"}}, "base")
		require.NoError(t, err)

		dev := f.branch(t, "dev")
		require.Equal(t, base.ID, dev.LatestCommit)

		next, err := f.asm.Commit(project, dev, []object.FileEdit{{Path: "g", Content: "2"}}, "dev work")
		require.NoError(t, err)
		require.Equal(t, base.ID, next.PreviousCommit)
		require.Equal(t, base.ID, f.stored(t, "master").LatestCommit)
	})

	t.Run("failed commit write leaves the pointer", func(t *testing.T) {
		f := newFixture(t)
		b := f.branch(t, "master")
		f.asm.Store = failingCommits{f.st.Objects}

		_, err := f.asm.Commit(project, b, []object.FileEdit{{Path: "f", Content: "1"}}, "lost")
		var storeErr *object.StoreError
		require.ErrorAs(t, err, &storeErr)
		require.False(t, b.HasCommits())
		require.False(t, f.stored(t, "master").HasCommits())
	})

	t.Run("failed branch save leaves the caller's branch", func(t *testing.T) {
		f := newFixture(t)
		b := f.branch(t, "master")
		f.asm.Branches = failingSaver{}

		_, err := f.asm.Commit(project, b, []object.FileEdit{{Path: "f", Content: "1"}}, "lost")
		require.Error(t, err)
		require.False(t, b.HasCommits())
	})

	t.Run("author is required", func(t *testing.T) {
		f := newFixture(t)
		f.asm.Authors = StaticAuthor("")
		_, err := f.asm.Commit(project, f.branch(t, "master"), []object.FileEdit{{Path: "f"}}, "anon")
		require.ErrorIs(t, err, object.ErrInvalidOperation)
	})
}

func TestHistoryStopsOnCycle(t *testing.T) {
	f := newFixture(t)
	a := &object.Commit{Message: "A"}
	_, err := f.st.Objects.PutCommit(a)
	require.NoError(t, err)
	b := &object.Commit{Message: "B", PreviousCommit: a.ID}
	_, err = f.st.Objects.PutCommit(b)
	require.NoError(t, err)

	a.PreviousCommit = b.ID
	require.NoError(t, f.st.Objects.UpdateCommit(a))

	history, err := f.asm.History(b.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

type failingCommits struct {
	*store.ObjectStore
}

func (failingCommits) PutCommit(*object.Commit) (string, error) {
	return "", object.NewStoreError("put", object.KindCommit, "", errors.New("disk full"))
}

type failingSaver struct{}

func (failingSaver) Save(object.Project, *object.Branch) error {
	return object.NewStoreError("save", object.KindBranch, "master", errors.New("disk full"))
}
