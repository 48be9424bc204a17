// Package repo is the entry point of the engine: it opens the stores named
// by a configuration and exposes the commit and read operations keyed by
// project and branch.
package repo

import (
	"fmt"
	"os"

	"github.com/keshon/coderepo/internal/actionlog"
	"github.com/keshon/coderepo/internal/branch"
	"github.com/keshon/coderepo/internal/commit"
	"github.com/keshon/coderepo/internal/config"
	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/ident"
	"github.com/keshon/coderepo/internal/lock"
	"github.com/keshon/coderepo/internal/logger"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/store"
	"github.com/keshon/coderepo/internal/tree"
)

// Repository represents an opened repository.
type Repository struct {
	Config   *config.RepoConfig
	Store    *store.StoreContext
	Resolver *branch.Resolver
	Trees    *tree.Builder
	Commits  *commit.Assembler
	Actions  *actionlog.Log
	Log      logger.Logger

	authors commit.AuthorResolver
	locks   lock.Keyed
}

// Options allows dependency injection. Zero fields fall back to what the
// config names.
type Options struct {
	FS      fs.FS
	IDs     ident.Generator
	Log     logger.Logger
	Authors commit.AuthorResolver
}

// OpenDefault opens the repository at the resolved root with its config.ini.
func OpenDefault() (*Repository, error) {
	cfg, err := config.Load(config.ResolveRepoRoot())
	if err != nil {
		return nil, err
	}

	log := logger.Logger(logger.New(os.Stderr, cfg.Verbose))
	if cfg.LogFile != "" {
		fileLog, err := logger.NewFile(cfg.LogFile, cfg.Verbose)
		if err != nil {
			return nil, err
		}
		log = fileLog
	}

	r, err := Open(cfg, &Options{Log: log})
	if err != nil {
		log.Close()
		return nil, err
	}
	return r, nil
}

// Open wires a repository from cfg.
func Open(cfg *config.RepoConfig, opts *Options) (*Repository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	authors := opts.Authors
	if authors == nil {
		authors = commit.StaticAuthor(cfg.ResolveAuthor())
	}

	st, err := store.NewStore(cfg, &store.NewStoreOptions{FS: opts.FS, IDs: opts.IDs})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	asm := commit.NewAssembler(st.Objects, st.Branches, authors, log)
	r := &Repository{
		Config:   cfg,
		Store:    st,
		Resolver: branch.NewResolver(st.Branches, cfg.DefaultBranch, log),
		Trees:    asm.Trees,
		Commits:  asm,
		Actions:  actionlog.New(st.FS, cfg.LogsDir()),
		Log:      log,
		authors:  authors,
	}
	log.Debug("opened repository at %s (identity=%s, backend=%s)", cfg.Root, cfg.Identity, cfg.Backend)
	return r, nil
}

// Close releases the logger.
func (r *Repository) Close() error {
	return r.Log.Close()
}

// CurrentProject returns the project name owned by the current author.
func (r *Repository) CurrentProject(name string) (object.Project, error) {
	owner, err := r.authors.CurrentAuthor()
	if err != nil {
		return object.Project{}, err
	}
	p := object.Project{Owner: owner, Name: name}
	if err := store.ValidateName("project", name); err != nil {
		return object.Project{}, err
	}
	return p, nil
}

// Commit applies edits to branch name of project p, creating the branch
// when needed. Commits to the same branch are serialized.
func (r *Repository) Commit(p object.Project, name string, edits []object.FileEdit, message string) (*object.Commit, error) {
	unlock := r.locks.Lock(lock.Key(p.Owner, p.Name, name))
	defer unlock()

	b, err := r.Resolver.Resolve(p, name)
	if err != nil {
		return nil, err
	}
	c, err := r.Commits.Commit(p, b, edits, message)
	if err != nil {
		return nil, err
	}
	r.record(actionlog.ActionCommit, c.Author, p)
	return c, nil
}

// CreateBranch forks name from the default branch of p.
func (r *Repository) CreateBranch(p object.Project, name string) (*object.Branch, error) {
	unlock := r.locks.Lock(lock.Key(p.Owner, p.Name, name))
	defer unlock()

	b, err := r.Resolver.Fork(p, name)
	if err != nil {
		return nil, err
	}
	if author, err := r.authors.CurrentAuthor(); err == nil {
		r.record(actionlog.ActionBranch, author, p)
	}
	return b, nil
}

// record is best effort: the change it describes is already stored.
func (r *Repository) record(action, profile string, p object.Project) {
	if _, err := r.Actions.Record(action, profile, p.String()); err != nil {
		r.Log.Warning("failed to record %s on %s: %v", action, p, err)
	}
}
