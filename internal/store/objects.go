package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/keshon/coderepo/internal/config"
	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/ident"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/util"
)

// ObjectStore keeps blobs, trees and commits as <kind dir>/<id>.json.
// It implements object.Store.
type ObjectStore struct {
	Config *config.RepoConfig
	FS     fs.FS
	IDs    ident.Generator
}

var _ object.Store = (*ObjectStore)(nil)

func (s *ObjectStore) dir(kind string) string {
	switch kind {
	case object.KindBlob:
		return s.Config.BlobsDir()
	case object.KindTree:
		return s.Config.TreesDir()
	default:
		return s.Config.CommitsDir()
	}
}

func (s *ObjectStore) path(kind, id string) string {
	return filepath.Join(s.dir(kind), id+".json")
}

func (s *ObjectStore) get(kind, id string, v any) error {
	if !validID.MatchString(id) {
		return object.NotFound(kind, id)
	}
	data, err := s.FS.ReadFile(s.path(kind, id))
	if err != nil {
		if s.FS.IsNotExist(err) {
			return object.NotFound(kind, id)
		}
		return object.NewStoreError("get", kind, id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return object.NewStoreError("get", kind, id, fmt.Errorf("decode: %w", err))
	}
	return nil
}

// put derives the identity from the id-less document, then stores it.
// setID must set the identity on the document being stored.
func (s *ObjectStore) put(kind string, doc any, setID func(string)) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", object.NewStoreError("put", kind, "", fmt.Errorf("encode: %w", err))
	}
	id := s.IDs.NewID(kind, payload)
	setID(id)

	path := s.path(kind, id)
	// content-addressed objects that already exist are identical
	if s.IDs.ContentAddressed() && s.FS.Exists(path) {
		return id, nil
	}
	if err := util.WriteJSON(s.FS, path, doc); err != nil {
		return "", object.NewStoreError("put", kind, id, err)
	}
	return id, nil
}

func (s *ObjectStore) update(kind, id string, doc any) error {
	if id == "" {
		return fmt.Errorf("update %s without identity: %w", kind, object.ErrInvalidOperation)
	}
	if s.IDs.ContentAddressed() {
		return fmt.Errorf("update %s %q: content-addressed objects are immutable: %w", kind, id, object.ErrInvalidOperation)
	}
	if !validID.MatchString(id) || !s.FS.Exists(s.path(kind, id)) {
		return object.NotFound(kind, id)
	}
	if err := util.WriteJSON(s.FS, s.path(kind, id), doc); err != nil {
		return object.NewStoreError("update", kind, id, err)
	}
	return nil
}

func (s *ObjectStore) delete(kind, id string) error {
	if !validID.MatchString(id) {
		return object.NotFound(kind, id)
	}
	if err := s.FS.Remove(s.path(kind, id)); err != nil {
		if s.FS.IsNotExist(err) {
			return object.NotFound(kind, id)
		}
		return object.NewStoreError("delete", kind, id, err)
	}
	return nil
}

// GetBlob reads a blob by ID.
func (s *ObjectStore) GetBlob(id string) (*object.Blob, error) {
	var b object.Blob
	if err := s.get(object.KindBlob, id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// PutBlob stores b under a new identity and sets b.ID.
func (s *ObjectStore) PutBlob(b *object.Blob) (string, error) {
	doc := *b
	doc.ID = ""
	return s.put(object.KindBlob, &doc, func(id string) { doc.ID, b.ID = id, id })
}

func (s *ObjectStore) UpdateBlob(b *object.Blob) error {
	return s.update(object.KindBlob, b.ID, b)
}

func (s *ObjectStore) DeleteBlob(id string) error {
	return s.delete(object.KindBlob, id)
}

// GetTree reads a tree by ID.
func (s *ObjectStore) GetTree(id string) (*object.Tree, error) {
	var t object.Tree
	if err := s.get(object.KindTree, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PutTree stores t under a new identity and sets t.ID.
func (s *ObjectStore) PutTree(t *object.Tree) (string, error) {
	doc := object.Tree{
		DirName: t.DirName,
		Trees:   append([]object.Ref{}, t.Trees...),
		Blobs:   append([]object.Ref{}, t.Blobs...),
	}
	return s.put(object.KindTree, &doc, func(id string) { doc.ID, t.ID = id, id })
}

func (s *ObjectStore) UpdateTree(t *object.Tree) error {
	return s.update(object.KindTree, t.ID, t)
}

func (s *ObjectStore) DeleteTree(id string) error {
	return s.delete(object.KindTree, id)
}

// GetCommit reads a commit by ID.
func (s *ObjectStore) GetCommit(id string) (*object.Commit, error) {
	var c object.Commit
	if err := s.get(object.KindCommit, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// PutCommit stores c under a new identity and sets c.ID.
func (s *ObjectStore) PutCommit(c *object.Commit) (string, error) {
	doc := *c
	doc.ID = ""
	return s.put(object.KindCommit, &doc, func(id string) { doc.ID, c.ID = id, id })
}

func (s *ObjectStore) UpdateCommit(c *object.Commit) error {
	return s.update(object.KindCommit, c.ID, c)
}

func (s *ObjectStore) DeleteCommit(id string) error {
	return s.delete(object.KindCommit, id)
}
