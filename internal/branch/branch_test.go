package branch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/branch"
	"github.com/keshon/coderepo/internal/config"
	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/store"
)

var project = object.Project{Owner: "alice", Name: "demo"}

func newResolver(t *testing.T) (*branch.Resolver, *store.BranchStore) {
	t.Helper()
	st, err := store.NewStore(config.NewRepoConfig("/repo"), &store.NewStoreOptions{FS: fs.NewMemoryFS()})
	require.NoError(t, err)
	return branch.NewResolver(st.Branches, "master", nil), st.Branches
}

// failingDirectory reports a read fault for every lookup.
type failingDirectory struct {
	branch.Directory
}

func (failingDirectory) Find(object.Project, string) (*object.Branch, error) {
	return nil, object.NewStoreError("get", object.KindBranch, "", errors.New("connection reset"))
}

func TestResolver(t *testing.T) {
	t.Run("existing branch is returned unchanged", func(t *testing.T) {
		r, dir := newResolver(t)
		created, err := dir.Create(project, &object.Branch{Name: "master", LatestCommit: "c1"})
		require.NoError(t, err)

		got, err := r.Resolve(project, "master")
		require.NoError(t, err)
		require.Equal(t, created, got)
	})

	t.Run("missing default branch is created empty", func(t *testing.T) {
		r, dir := newResolver(t)

		got, err := r.Resolve(project, "master")
		require.NoError(t, err)
		require.Equal(t, "master", got.Name)
		require.False(t, got.HasCommits())

		stored, err := dir.Find(project, "master")
		require.NoError(t, err)
		require.Equal(t, got, stored)
	})

	t.Run("other branch forks from the default tip", func(t *testing.T) {
		r, dir := newResolver(t)
		master, err := dir.Create(project, &object.Branch{Name: "master", LatestCommit: "c1"})
		require.NoError(t, err)

		dev, err := r.Resolve(project, "dev")
		require.NoError(t, err)
		require.Equal(t, "c1", dev.LatestCommit)
		require.NotEqual(t, master.ID, dev.ID)

		// advancing the default branch leaves the fork where it was
		master.LatestCommit = "c2"
		require.NoError(t, dir.Save(project, master))
		dev, err = r.Lookup(project, "dev")
		require.NoError(t, err)
		require.Equal(t, "c1", dev.LatestCommit)
	})

	t.Run("fork from an empty default branch is empty", func(t *testing.T) {
		r, dir := newResolver(t)
		_, err := dir.Create(project, &object.Branch{Name: "master"})
		require.NoError(t, err)

		dev, err := r.Resolve(project, "dev")
		require.NoError(t, err)
		require.False(t, dev.HasCommits())
	})

	t.Run("fork before the default branch exists", func(t *testing.T) {
		r, dir := newResolver(t)

		_, err := r.Resolve(project, "dev")
		require.ErrorIs(t, err, object.ErrInvalidOperation)

		_, err = dir.Find(project, "dev")
		require.ErrorIs(t, err, object.ErrNotFound)
	})

	t.Run("Lookup never creates", func(t *testing.T) {
		r, _ := newResolver(t)
		_, err := r.Lookup(project, "master")
		require.ErrorIs(t, err, object.ErrNotFound)
		_, err = r.Lookup(project, "master")
		require.ErrorIs(t, err, object.ErrNotFound)
	})

	t.Run("Fork refuses an existing branch", func(t *testing.T) {
		r, dir := newResolver(t)
		_, err := dir.Create(project, &object.Branch{Name: "master", LatestCommit: "c1"})
		require.NoError(t, err)

		dev, err := r.Fork(project, "dev")
		require.NoError(t, err)
		require.Equal(t, "c1", dev.LatestCommit)

		_, err = r.Fork(project, "dev")
		require.ErrorIs(t, err, object.ErrInvalidOperation)
	})

	t.Run("directory faults are propagated", func(t *testing.T) {
		r := branch.NewResolver(failingDirectory{}, "master", nil)

		_, err := r.Resolve(project, "master")
		var storeErr *object.StoreError
		require.ErrorAs(t, err, &storeErr)
		require.False(t, errors.Is(err, object.ErrNotFound))
	})
}
