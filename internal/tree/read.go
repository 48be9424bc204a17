package tree

import (
	"fmt"
	"path"

	"github.com/keshon/coderepo/internal/object"
)

// Resolve returns the blob stored at filePath under the root tree rootID.
func (b *Builder) Resolve(rootID, filePath string) (*object.Blob, error) {
	dirs, file := object.SplitPath(filePath)
	if file == "" || object.IsDirectory(filePath) {
		return nil, object.NotFound(object.KindBlob, filePath)
	}
	ref, err := b.lookup(rootID, dirs, file)
	if err != nil {
		return nil, err
	}
	if ref.ID == "" {
		return nil, object.NotFound(object.KindBlob, filePath)
	}
	return b.Store.GetBlob(ref.ID)
}

// lookup follows dirs from treeID and returns the ref of file, or a zero
// Ref when a segment is missing.
func (b *Builder) lookup(treeID string, dirs []string, file string) (object.Ref, error) {
	t, err := b.Store.GetTree(treeID)
	if err != nil {
		return object.Ref{}, err
	}
	for _, name := range dirs {
		ref, ok := t.FindTree(name)
		if !ok {
			return object.Ref{}, nil
		}
		if t, err = b.Store.GetTree(ref.ID); err != nil {
			return object.Ref{}, err
		}
	}
	ref, _ := t.FindBlob(file)
	return ref, nil
}

// WalkFunc is called for every file with its slash-separated path
// relative to the root, without a leading separator.
type WalkFunc func(filePath string, blob object.Ref) error

// Walk visits every file under rootID depth-first: the blobs of a
// directory first, then its subdirectories, both in stored order.
func (b *Builder) Walk(rootID string, fn WalkFunc) error {
	return b.walk(rootID, "", fn)
}

func (b *Builder) walk(treeID, dir string, fn WalkFunc) error {
	t, err := b.Store.GetTree(treeID)
	if err != nil {
		return fmt.Errorf("failed to load tree %s: %w", treeID, err)
	}
	for _, r := range t.Blobs {
		if err := fn(path.Join(dir, r.Name), r); err != nil {
			return err
		}
	}
	for _, r := range t.Trees {
		if err := b.walk(r.ID, path.Join(dir, r.Name), fn); err != nil {
			return err
		}
	}
	return nil
}
