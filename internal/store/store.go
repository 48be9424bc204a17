// Package store implements the object store and the branch directory on
// top of the fs abstraction: one JSON document per object, written
// atomically.
package store

import (
	"fmt"
	"regexp"

	"github.com/keshon/coderepo/internal/config"
	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/ident"
)

// StoreContext is the high-level store abstraction that unifies all subsystems.
type StoreContext struct {
	Config   *config.RepoConfig
	FS       fs.FS
	Objects  *ObjectStore
	Branches *BranchStore
}

// NewStoreOptions allows optional dependency injection (FS, identity generator)
type NewStoreOptions struct {
	FS  fs.FS
	IDs ident.Generator
}

// NewStoreDefault creates a store with the dependencies named by cfg.
func NewStoreDefault(cfg *config.RepoConfig) (*StoreContext, error) {
	return NewStore(cfg, nil)
}

// NewStore creates a store with optional dependencies (FS, identity generator)
func NewStore(cfg *config.RepoConfig, opts *NewStoreOptions) (*StoreContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}

	// Resolve FS
	var fsys fs.FS
	switch {
	case opts != nil && opts.FS != nil:
		fsys = opts.FS
	case cfg.Backend == config.BackendMemory:
		fsys = fs.NewMemoryFS()
	default:
		fsys = fs.NewOSFS()
	}
	if cfg.Compress {
		fsys = fs.NewCompressedFS(fsys)
	}

	// Resolve identity generator
	var ids ident.Generator
	if opts != nil && opts.IDs != nil {
		ids = opts.IDs
	} else {
		var err error
		if ids, err = ident.New(cfg.Identity); err != nil {
			return nil, err
		}
	}

	if err := createStoreStructure(cfg, fsys); err != nil {
		return nil, err
	}

	return &StoreContext{
		Config:   cfg,
		FS:       fsys,
		Objects:  &ObjectStore{Config: cfg, FS: fsys, IDs: ids},
		Branches: &BranchStore{Config: cfg, FS: fsys, IDs: ids},
	}, nil
}

// createStoreStructure builds required dirs via injected FS
func createStoreStructure(cfg *config.RepoConfig, fsys fs.FS) error {
	dirs := []string{
		cfg.BlobsDir(),
		cfg.TreesDir(),
		cfg.CommitsDir(),
		cfg.BranchesDir(),
	}
	for _, d := range dirs {
		if err := fsys.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create store dir %q: %w", d, err)
		}
	}
	return nil
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
