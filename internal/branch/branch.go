// Package branch resolves branch names within a project, creating the
// default branch on first use and forking other branches from its tip.
package branch

import (
	"errors"
	"fmt"

	"github.com/keshon/coderepo/internal/logger"
	"github.com/keshon/coderepo/internal/object"
)

// Directory maps (project, branch name) to branch records.
type Directory interface {
	Find(p object.Project, name string) (*object.Branch, error)
	Create(p object.Project, b *object.Branch) (*object.Branch, error)
	Save(p object.Project, b *object.Branch) error
	List(p object.Project) ([]*object.Branch, error)
}

// Resolver decides how a commit target that does not exist yet comes into being.
type Resolver struct {
	Dir           Directory
	DefaultBranch string
	Log           logger.Logger
}

// NewResolver creates a Resolver over dir.
func NewResolver(dir Directory, defaultBranch string, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{Dir: dir, DefaultBranch: defaultBranch, Log: log}
}

// Lookup returns an existing branch without creating anything.
func (r *Resolver) Lookup(p object.Project, name string) (*object.Branch, error) {
	return r.Dir.Find(p, name)
}

// Resolve returns the branch named name, creating it when missing. The
// default branch is created empty; any other branch is forked from the
// default branch's current tip.
func (r *Resolver) Resolve(p object.Project, name string) (*object.Branch, error) {
	b, err := r.Dir.Find(p, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, object.ErrNotFound) {
		return nil, fmt.Errorf("failed to find branch %q: %w", name, err)
	}

	if name == r.DefaultBranch {
		return r.create(p, &object.Branch{Name: name})
	}
	return r.fork(p, name)
}

// Fork creates name from the default branch's tip. Unlike Resolve it
// refuses a branch that already exists.
func (r *Resolver) Fork(p object.Project, name string) (*object.Branch, error) {
	_, err := r.Dir.Find(p, name)
	if err == nil {
		return nil, fmt.Errorf("branch %q already exists in %s: %w", name, p, object.ErrInvalidOperation)
	}
	if !errors.Is(err, object.ErrNotFound) {
		return nil, fmt.Errorf("failed to find branch %q: %w", name, err)
	}
	if name == r.DefaultBranch {
		return r.create(p, &object.Branch{Name: name})
	}
	return r.fork(p, name)
}

func (r *Resolver) fork(p object.Project, name string) (*object.Branch, error) {
	base, err := r.Dir.Find(p, r.DefaultBranch)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, fmt.Errorf("cannot create branch %q before %q exists in %s: %w",
				name, r.DefaultBranch, p, object.ErrInvalidOperation)
		}
		return nil, fmt.Errorf("failed to find branch %q: %w", r.DefaultBranch, err)
	}

	// pointer copy: later commits on either branch do not affect the other
	return r.create(p, &object.Branch{Name: name, LatestCommit: base.LatestCommit})
}

func (r *Resolver) create(p object.Project, b *object.Branch) (*object.Branch, error) {
	created, err := r.Dir.Create(p, b)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch %q: %w", b.Name, err)
	}
	if created.HasCommits() {
		r.Log.Info("created branch %s in %s at %s", created.Name, p, created.LatestCommit)
	} else {
		r.Log.Info("created empty branch %s in %s", created.Name, p)
	}
	return created, nil
}
