// Package tree builds the directory tree of a new snapshot from the
// previous snapshot and a set of file edits, and reads files back out of
// persisted trees.
package tree

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/keshon/coderepo/internal/logger"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/util"
)

// Store is what the builder needs from the object store.
type Store interface {
	object.BlobStore
	object.TreeStore
}

// Builder assembles new root trees. It holds no per-build state and may
// be shared.
type Builder struct {
	Store   Store
	Log     logger.Logger
	Workers int
}

// NewBuilder creates a Builder over st.
func NewBuilder(st Store, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{Store: st, Log: log, Workers: util.WorkerCount()}
}

// Build returns the identity of a new root tree holding the files of
// priorRoot with edits applied. priorRoot may be empty for a branch
// without commits. Trees reachable from priorRoot are never modified.
//
// Edits are applied first, then untouched entries of the prior tree are
// carried forward by reference, then previous paths are pruned. An edit
// therefore shadows the prior file of the same path, and a pruned file
// cannot be brought back by carry-forward.
func (b *Builder) Build(priorRoot string, edits []object.FileEdit) (string, error) {
	root := newDraft(object.RootName)

	if err := b.apply(root, edits); err != nil {
		return "", err
	}

	if priorRoot != "" {
		prior, err := b.Store.GetTree(priorRoot)
		if err != nil {
			return "", fmt.Errorf("failed to load prior root tree: %w", err)
		}
		if err := b.carryForward(root, prior); err != nil {
			return "", err
		}
	}

	for _, e := range edits {
		if !e.RemovesPrevious() {
			continue
		}
		if err := b.prune(root, e.PreviousPath); err != nil {
			return "", err
		}
	}

	id, _, err := b.flush(root)
	if err != nil {
		return "", err
	}
	b.Log.Debug("built root tree %s from %d edits (prior %q)", id, len(edits), priorRoot)
	return id, nil
}

// apply writes one blob per file edit into fresh drafts. Directory
// placeholders only create their directories.
func (b *Builder) apply(root *draft, edits []object.FileEdit) error {
	for _, e := range edits {
		if e.Path == "" {
			continue
		}
		dirs, file := object.SplitPath(e.Path)
		if object.IsDirectory(e.Path) && file != "" {
			dirs, file = append(dirs, file), ""
		}

		d := root
		for _, name := range dirs {
			d = d.subdir(name)
		}
		if file == "" {
			continue
		}

		blob := &object.Blob{FileName: file, Content: e.Content}
		id, err := b.Store.PutBlob(blob)
		if err != nil {
			return fmt.Errorf("failed to store blob %q: %w", e.Path, err)
		}
		d.putBlob(object.Ref{ID: id, Name: file})
	}
	return nil
}

// carryForward copies every entry of prior that d does not already hold.
// Directories present on both sides are merged concurrently, each merge
// touching only its own draft.
func (b *Builder) carryForward(d *draft, prior *object.Tree) error {
	names := mapset.NewThreadUnsafeSet[string]()
	for _, r := range d.blobs {
		names.Add(r.Name)
	}
	for _, r := range prior.Blobs {
		if !names.Contains(r.Name) {
			d.blobs = append(d.blobs, r)
		}
	}

	names.Clear()
	for _, s := range d.dirs {
		names.Add(s.name)
	}

	type merge struct {
		into  *draft
		prior string
	}
	var merges []merge
	for _, r := range prior.Trees {
		if !names.Contains(r.Name) {
			d.dirs = append(d.dirs, &slot{name: r.Name, id: r.ID})
			continue
		}
		if s := d.dir(r.Name); s.open != nil {
			merges = append(merges, merge{into: s.open, prior: r.ID})
		}
	}

	return util.Parallel(merges, b.Workers, func(m merge) error {
		t, err := b.Store.GetTree(m.prior)
		if err != nil {
			return fmt.Errorf("failed to load prior tree %s: %w", m.prior, err)
		}
		return b.carryForward(m.into, t)
	})
}

// prune removes the file at path. Missing directories or files are
// ignored. Carried subtrees on the way are opened copy-on-write.
func (b *Builder) prune(root *draft, path string) error {
	dirs, file := object.SplitPath(path)
	if file == "" {
		return nil
	}

	// check first so an absent file does not reopen carried trees
	ok, err := b.exists(root, dirs, file)
	if err != nil || !ok {
		return err
	}

	d := root
	for _, name := range dirs {
		s := d.dir(name)
		if s.open == nil {
			t, err := b.Store.GetTree(s.id)
			if err != nil {
				return fmt.Errorf("failed to load tree %s: %w", s.id, err)
			}
			s.open = fromTree(t)
		}
		d = s.open
	}
	d.removeBlob(file)
	return nil
}

func (b *Builder) exists(d *draft, dirs []string, file string) (bool, error) {
	for i, name := range dirs {
		s := d.dir(name)
		if s == nil {
			return false, nil
		}
		if s.open != nil {
			d = s.open
			continue
		}
		ref, err := b.lookup(s.id, dirs[i+1:], file)
		if err != nil {
			return false, fmt.Errorf("failed to resolve %q: %w", name, err)
		}
		return ref.ID != "", nil
	}
	for _, r := range d.blobs {
		if r.Name == file {
			return true, nil
		}
	}
	return false, nil
}

// flush persists d bottom-up and reports whether a new tree was written.
// Sibling drafts are flushed concurrently; each writes only its own slot.
func (b *Builder) flush(d *draft) (string, bool, error) {
	var open []*slot
	for _, s := range d.dirs {
		if s.open != nil {
			open = append(open, s)
		}
	}

	err := util.Parallel(open, b.Workers, func(s *slot) error {
		id, rewritten, err := b.flush(s.open)
		if err != nil {
			return err
		}
		s.id, s.rewritten = id, rewritten
		return nil
	})
	if err != nil {
		return "", false, err
	}

	changed := d.changed
	for _, s := range open {
		changed = changed || s.rewritten
	}
	if !changed && d.base != "" {
		return d.base, false, nil
	}

	t := &object.Tree{
		DirName: d.name,
		Trees:   make([]object.Ref, 0, len(d.dirs)),
		Blobs:   append([]object.Ref{}, d.blobs...),
	}
	for _, s := range d.dirs {
		t.Trees = append(t.Trees, object.Ref{ID: s.id, Name: s.name})
	}
	id, err := b.Store.PutTree(t)
	if err != nil {
		return "", false, fmt.Errorf("failed to store tree %q: %w", d.name, err)
	}
	return id, true, nil
}
