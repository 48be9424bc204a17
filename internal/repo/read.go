package repo

import (
	"fmt"

	"github.com/keshon/coderepo/internal/object"
)

// Branch returns an existing branch. It never creates one.
func (r *Repository) Branch(p object.Project, name string) (*object.Branch, error) {
	return r.Resolver.Lookup(p, name)
}

// Branches returns the branches of p sorted by name.
func (r *Repository) Branches(p object.Project) ([]*object.Branch, error) {
	return r.Store.Branches.List(p)
}

// LatestCommit returns the commit branch name of p points at. A branch
// without commits reports ErrNotFound.
func (r *Repository) LatestCommit(p object.Project, name string) (*object.Commit, error) {
	b, err := r.Branch(p, name)
	if err != nil {
		return nil, err
	}
	if !b.HasCommits() {
		return nil, fmt.Errorf("branch %q has no commits: %w", name, object.ErrNotFound)
	}
	return r.Store.Objects.GetCommit(b.LatestCommit)
}

// ResolveTree returns the root tree of the latest commit of branch name.
func (r *Repository) ResolveTree(p object.Project, name string) (*object.Tree, error) {
	c, err := r.LatestCommit(p, name)
	if err != nil {
		return nil, err
	}
	return r.Store.Objects.GetTree(c.CodeRoot)
}

// ResolveFile returns the blob at path in the latest commit of branch name.
func (r *Repository) ResolveFile(p object.Project, name, path string) (*object.Blob, error) {
	c, err := r.LatestCommit(p, name)
	if err != nil {
		return nil, err
	}
	return r.Trees.Resolve(c.CodeRoot, path)
}

// History returns up to limit commits of branch name, latest first.
func (r *Repository) History(p object.Project, name string, limit int) ([]*object.Commit, error) {
	b, err := r.Branch(p, name)
	if err != nil {
		return nil, err
	}
	return r.Commits.History(b.LatestCommit, limit)
}

func (r *Repository) TreeByID(id string) (*object.Tree, error) {
	return r.Store.Objects.GetTree(id)
}

func (r *Repository) BlobByID(id string) (*object.Blob, error) {
	return r.Store.Objects.GetBlob(id)
}

func (r *Repository) CommitByID(id string) (*object.Commit, error) {
	return r.Store.Objects.GetCommit(id)
}
