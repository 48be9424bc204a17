package object_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keshon/coderepo/internal/object"
)

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path string
		dirs []string
		file string
	}{
		{"/x/f.txt", []string{"x"}, "f.txt"},
		{"x/f.txt", []string{"x"}, "f.txt"},
		{"/a/b/c/f.txt", []string{"a", "b", "c"}, "f.txt"},
		{"/f.txt", nil, "f.txt"},
		{"f.txt", nil, "f.txt"},
		{"/x//f.txt", []string{"x"}, "f.txt"},
		{"", nil, ""},
		{"/", nil, ""},
	}
	for _, c := range cases {
		dirs, file := object.SplitPath(c.path)
		require.Equal(t, c.dirs, dirs, c.path)
		require.Equal(t, c.file, file, c.path)
	}
}

func TestFileEdit(t *testing.T) {
	t.Run("WritesFile", func(t *testing.T) {
		require.True(t, object.FileEdit{Path: "/x/f.txt"}.WritesFile())
		require.False(t, object.FileEdit{Path: "/x/"}.WritesFile())
		require.False(t, object.FileEdit{}.WritesFile())
	})

	t.Run("RemovesPrevious", func(t *testing.T) {
		require.True(t, object.FileEdit{Path: "/b.txt", PreviousPath: "/a.txt"}.RemovesPrevious())
		require.True(t, object.FileEdit{PreviousPath: "/a.txt"}.RemovesPrevious())
		require.False(t, object.FileEdit{Path: "/a.txt", PreviousPath: "/a.txt"}.RemovesPrevious())
		require.False(t, object.FileEdit{Path: "/a.txt", PreviousPath: "/dir/"}.RemovesPrevious())
		require.False(t, object.FileEdit{Path: "/a.txt"}.RemovesPrevious())
	})
}

func TestTreeFind(t *testing.T) {
	tree := &object.Tree{
		DirName: object.RootName,
		Trees:   []object.Ref{{ID: "t1", Name: "x"}},
		Blobs:   []object.Ref{{ID: "b1", Name: "f.txt"}, {ID: "b2", Name: "F.txt"}},
	}

	ref, ok := tree.FindTree("x")
	require.True(t, ok)
	require.Equal(t, "t1", ref.ID)

	_, ok = tree.FindTree("X")
	require.False(t, ok)

	ref, ok = tree.FindBlob("F.txt")
	require.True(t, ok)
	require.Equal(t, "b2", ref.ID)
}

func TestBlobEquivalent(t *testing.T) {
	a := &object.Blob{ID: "1", FileName: "f.txt", Content: "a"}
	b := &object.Blob{ID: "2", FileName: "f.txt", Content: "a"}
	c := &object.Blob{ID: "3", FileName: "f.txt", Content: "b"}

	require.True(t, a.Equivalent(b))
	require.False(t, a.Equivalent(c))
	require.False(t, a.Equivalent(nil))
}

func TestProject(t *testing.T) {
	p, ok := object.ParseProject("alice/demo")
	require.True(t, ok)
	require.Equal(t, object.Project{Owner: "alice", Name: "demo"}, p)
	require.Equal(t, "alice/demo", p.String())

	for _, bad := range []string{"demo", "/demo", "alice/", "a/b/c"} {
		_, ok := object.ParseProject(bad)
		require.False(t, ok, bad)
	}
}

func TestErrors(t *testing.T) {
	err := object.NotFound(object.KindTree, "abc")
	require.True(t, object.IsNotFound(err))
	require.EqualError(t, err, `tree "abc": not found`)

	cause := errors.New("disk full")
	storeErr := object.NewStoreError("put", object.KindBlob, "", cause)
	require.ErrorIs(t, storeErr, cause)
	require.EqualError(t, storeErr, "put blob: disk full")

	var target *object.StoreError
	require.ErrorAs(t, error(storeErr), &target)
}
