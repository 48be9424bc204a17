// Package verify checks that every object reachable from the branches of
// a project can be read back intact.
package verify

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/keshon/coderepo/internal/ident"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/util"
)

type Status int

const (
	OK Status = iota
	Missing
	Damaged
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	default:
		return "damaged"
	}
}

// Check is the result for one object. Path is the location of a tree or
// blob within the snapshot where it was first reached.
type Check struct {
	Kind   string
	ID     string
	Branch string
	Path   string
	Status Status
	Err    error
}

// BranchLister lists the branches of a project.
type BranchLister interface {
	List(p object.Project) ([]*object.Branch, error)
}

// Scanner walks branches, commits, trees and blobs. Objects shared
// between snapshots are checked once. With a content-addressed generator
// every object is also re-hashed against its identity.
type Scanner struct {
	Store    object.Store
	Branches BranchLister
	IDs      ident.Generator
	Workers  int
}

// NewScanner creates a Scanner.
func NewScanner(st object.Store, branches BranchLister, ids ident.Generator) *Scanner {
	return &Scanner{Store: st, Branches: branches, IDs: ids, Workers: util.WorkerCount()}
}

// Report summarizes a scan.
type Report struct {
	OK, Missing, Damaged int
	Failed               []Check
}

// Add counts c, keeping it when it failed.
func (r *Report) Add(c Check) {
	switch c.Status {
	case OK:
		r.OK++
		return
	case Missing:
		r.Missing++
	default:
		r.Damaged++
	}
	r.Failed = append(r.Failed, c)
}

// Healthy reports whether no object failed.
func (r *Report) Healthy() bool { return len(r.Failed) == 0 }

// Scan runs Stream to completion and collects the results.
func (s *Scanner) Scan(p object.Project, allHistory bool) (*Report, error) {
	out, errCh := s.Stream(p, allHistory)
	report := &Report{}
	for c := range out {
		report.Add(c)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return report, nil
}

// Stream verifies objects and streams results live. Only the latest
// commit of each branch is checked unless allHistory is set. The error
// channel carries at most one error, for faults that stop the scan.
func (s *Scanner) Stream(p object.Project, allHistory bool) (<-chan Check, <-chan error) {
	out := make(chan Check, 128)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		branches, err := s.Branches.List(p)
		if err != nil {
			errCh <- fmt.Errorf("failed to list branches: %w", err)
			return
		}

		w := &walker{Scanner: s, out: out, seen: map[string]bool{}}
		for _, b := range branches {
			w.branch = b.Name
			for id := b.LatestCommit; id != ""; {
				c, ok := w.commit(id)
				if !ok || !allHistory {
					break
				}
				id = c.PreviousCommit
			}
		}
	}()

	return out, errCh
}

type walker struct {
	*Scanner
	out    chan<- Check
	branch string
	seen   map[string]bool
}

func (w *walker) first(kind, id string) bool {
	key := kind + ":" + id
	if w.seen[key] {
		return false
	}
	w.seen[key] = true
	return true
}

func (w *walker) emit(kind, id, at string, status Status, err error) {
	w.out <- Check{Kind: kind, ID: id, Branch: w.branch, Path: at, Status: status, Err: err}
}

// commit checks commit id and its snapshot. It returns false when the
// commit cannot be read or was already visited, which ends a history walk.
func (w *walker) commit(id string) (*object.Commit, bool) {
	if !w.first(object.KindCommit, id) {
		return nil, false
	}
	c, err := w.Store.GetCommit(id)
	if status := classify(err); status != OK {
		w.emit(object.KindCommit, id, "", status, err)
		return nil, false
	}
	doc := *c
	doc.ID = ""
	if status, err := w.rehash(object.KindCommit, id, &doc); status != OK {
		w.emit(object.KindCommit, id, "", status, err)
		return nil, false
	}
	w.emit(object.KindCommit, id, "", OK, nil)
	w.tree(c.CodeRoot, "/")
	return c, true
}

func (w *walker) tree(id, at string) {
	if !w.first(object.KindTree, id) {
		return
	}
	t, err := w.Store.GetTree(id)
	if status := classify(err); status != OK {
		w.emit(object.KindTree, id, at, status, err)
		return
	}
	doc := object.Tree{
		DirName: t.DirName,
		Trees:   append([]object.Ref{}, t.Trees...),
		Blobs:   append([]object.Ref{}, t.Blobs...),
	}
	if status, err := w.rehash(object.KindTree, id, &doc); status != OK {
		w.emit(object.KindTree, id, at, status, err)
		return
	}
	w.emit(object.KindTree, id, at, OK, nil)

	var blobs []object.Ref
	for _, r := range t.Blobs {
		if w.first(object.KindBlob, r.ID) {
			blobs = append(blobs, r)
		}
	}
	w.blobs(blobs, at)

	for _, r := range t.Trees {
		w.tree(r.ID, path.Join(at, r.Name))
	}
}

// blobs checks the files of one directory concurrently.
func (w *walker) blobs(refs []object.Ref, dir string) {
	_ = util.Parallel(refs, w.Workers, func(r object.Ref) error {
		status, err := w.blob(r)
		w.emit(object.KindBlob, r.ID, path.Join(dir, r.Name), status, err)
		return nil
	})
}

func (w *walker) blob(r object.Ref) (Status, error) {
	b, err := w.Store.GetBlob(r.ID)
	if status := classify(err); status != OK {
		return status, err
	}
	if b.FileName != r.Name {
		return Damaged, fmt.Errorf("file name %q does not match entry %q", b.FileName, r.Name)
	}
	doc := *b
	doc.ID = ""
	return w.rehash(object.KindBlob, r.ID, &doc)
}

// rehash compares a content-addressed identity with the document it names.
func (w *walker) rehash(kind, id string, doc any) (Status, error) {
	if w.IDs == nil || !w.IDs.ContentAddressed() {
		return OK, nil
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return Damaged, err
	}
	if got := w.IDs.NewID(kind, payload); got != id {
		return Damaged, fmt.Errorf("content hashes to %s", got)
	}
	return OK, nil
}

func classify(err error) Status {
	switch {
	case err == nil:
		return OK
	case object.IsNotFound(err):
		return Missing
	default:
		return Damaged
	}
}
