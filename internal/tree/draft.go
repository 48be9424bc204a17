package tree

import (
	"github.com/keshon/coderepo/internal/object"
)

// draft is an open directory of the tree under construction. Persisted
// trees are never edited; a directory that must change is copied into a
// draft and written back under a new identity.
type draft struct {
	name  string
	dirs  []*slot
	blobs []object.Ref

	// base is the persisted tree this draft was copied from, reused as-is
	// when nothing below it changed.
	base    string
	changed bool
}

// slot is a subdirectory entry: either a persisted tree reference or an
// open draft.
type slot struct {
	name string
	id   string
	open *draft

	rewritten bool
}

func newDraft(name string) *draft {
	return &draft{name: name, changed: true}
}

// fromTree copies the child refs of a persisted tree into a new draft.
func fromTree(t *object.Tree) *draft {
	d := &draft{
		name:  t.DirName,
		dirs:  make([]*slot, 0, len(t.Trees)),
		blobs: append([]object.Ref(nil), t.Blobs...),
		base:  t.ID,
	}
	for _, r := range t.Trees {
		d.dirs = append(d.dirs, &slot{name: r.Name, id: r.ID})
	}
	return d
}

func (d *draft) dir(name string) *slot {
	for _, s := range d.dirs {
		if s.name == name {
			return s
		}
	}
	return nil
}

// subdir returns the open draft named name, creating an empty one when
// the directory does not exist yet. Only used before carry-forward, when
// every slot is open.
func (d *draft) subdir(name string) *draft {
	if s := d.dir(name); s != nil && s.open != nil {
		return s.open
	}
	child := newDraft(name)
	d.dirs = append(d.dirs, &slot{name: name, open: child})
	d.changed = true
	return child
}

// putBlob adds ref, replacing an earlier blob of the same name in place.
func (d *draft) putBlob(ref object.Ref) {
	d.changed = true
	for i, b := range d.blobs {
		if b.Name == ref.Name {
			d.blobs[i] = ref
			return
		}
	}
	d.blobs = append(d.blobs, ref)
}

func (d *draft) removeBlob(name string) bool {
	for i, b := range d.blobs {
		if b.Name == name {
			d.blobs = append(d.blobs[:i], d.blobs[i+1:]...)
			d.changed = true
			return true
		}
	}
	return false
}
