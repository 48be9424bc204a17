// Package commit turns a change set into a commit on a branch.
package commit

import (
	"fmt"
	"time"

	"github.com/keshon/coderepo/internal/logger"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/tree"
)

// AuthorResolver supplies the identity recorded on new commits.
type AuthorResolver interface {
	CurrentAuthor() (string, error)
}

// StaticAuthor always resolves to itself.
type StaticAuthor string

func (a StaticAuthor) CurrentAuthor() (string, error) {
	if a == "" {
		return "", fmt.Errorf("no author configured: %w", object.ErrInvalidOperation)
	}
	return string(a), nil
}

// BranchSaver persists an advanced branch pointer.
type BranchSaver interface {
	Save(p object.Project, b *object.Branch) error
}

// Assembler builds the tree of a change set, stores the commit and then
// advances the branch. It does not serialize writers: callers must allow
// at most one commit per branch at a time.
type Assembler struct {
	Store    object.Store
	Branches BranchSaver
	Trees    *tree.Builder
	Authors  AuthorResolver
	Log      logger.Logger

	now func() time.Time
}

// NewAssembler creates an Assembler. A nil log discards output.
func NewAssembler(st object.Store, branches BranchSaver, authors AuthorResolver, log logger.Logger) *Assembler {
	if log == nil {
		log = logger.Nop()
	}
	return &Assembler{
		Store:    st,
		Branches: branches,
		Trees:    tree.NewBuilder(st, log),
		Authors:  authors,
		Log:      log,
		now:      time.Now,
	}
}

// Commit records edits on branch b of project p. On success b.LatestCommit
// is the returned commit. On failure the stored pointer and b are left as
// they were.
func (a *Assembler) Commit(p object.Project, b *object.Branch, edits []object.FileEdit, message string) (*object.Commit, error) {
	if len(edits) == 0 {
		return nil, fmt.Errorf("empty change set for %s@%s: %w", p, b.Name, object.ErrInvalidOperation)
	}

	author, err := a.Authors.CurrentAuthor()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	priorRoot := ""
	if b.HasCommits() {
		prev, err := a.Store.GetCommit(b.LatestCommit)
		if err != nil {
			return nil, fmt.Errorf("failed to read latest commit of %s: %w", b.Name, err)
		}
		priorRoot = prev.CodeRoot
	}

	root, err := a.Trees.Build(priorRoot, edits)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}

	c := &object.Commit{
		Author:         author,
		Message:        message,
		PreviousCommit: b.LatestCommit,
		CodeRoot:       root,
		Timestamp:      a.now().UTC().Format(time.RFC3339),
	}
	if _, err := a.Store.PutCommit(c); err != nil {
		return nil, fmt.Errorf("failed to store commit: %w", err)
	}

	// the pointer moves only once the commit is stored
	advanced := *b
	advanced.LatestCommit = c.ID
	if err := a.Branches.Save(p, &advanced); err != nil {
		return nil, fmt.Errorf("failed to advance branch %s: %w", b.Name, err)
	}
	*b = advanced

	a.Log.Info("committed %s on %s@%s (%d edits)", c.ID, p, b.Name, len(edits))
	return c, nil
}

// History returns up to limit commits starting at commitID, latest first.
// A limit <= 0 means no limit. The walk stops at the first repeated id.
func (a *Assembler) History(commitID string, limit int) ([]*object.Commit, error) {
	var commits []*object.Commit
	seen := map[string]bool{}
	for id := commitID; id != ""; {
		if seen[id] || (limit > 0 && len(commits) == limit) {
			break
		}
		seen[id] = true

		c, err := a.Store.GetCommit(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit %q: %w", id, err)
		}
		commits = append(commits, c)
		id = c.PreviousCommit
	}
	return commits, nil
}
