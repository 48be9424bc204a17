package store

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/keshon/coderepo/internal/config"
	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/ident"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/util"
)

// BranchStore keeps one JSON document per branch under
// branches/<owner>/<project>/<name>.json, each segment path-escaped.
type BranchStore struct {
	Config *config.RepoConfig
	FS     fs.FS
	IDs    ident.Generator

	mu sync.Mutex // serializes Create
}

// ValidateName rejects names that cannot be stored as a path segment.
func ValidateName(what, name string) error {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid %s name %q: %w", what, name, object.ErrInvalidOperation)
	}
	return nil
}

func (s *BranchStore) projectDir(p object.Project) (string, error) {
	if err := ValidateName("owner", p.Owner); err != nil {
		return "", err
	}
	if err := ValidateName("project", p.Name); err != nil {
		return "", err
	}
	return filepath.Join(s.Config.BranchesDir(), url.PathEscape(p.Owner), url.PathEscape(p.Name)), nil
}

func (s *BranchStore) path(p object.Project, name string) (string, error) {
	dir, err := s.projectDir(p)
	if err != nil {
		return "", err
	}
	if err := ValidateName("branch", name); err != nil {
		return "", err
	}
	return filepath.Join(dir, url.PathEscape(name)+".json"), nil
}

// Find returns the branch named name in project p.
func (s *BranchStore) Find(p object.Project, name string) (*object.Branch, error) {
	path, err := s.path(p, name)
	if err != nil {
		return nil, err
	}
	return s.read(path, name)
}

func (s *BranchStore) read(path, name string) (*object.Branch, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		if s.FS.IsNotExist(err) {
			return nil, object.NotFound(object.KindBranch, name)
		}
		return nil, object.NewStoreError("get", object.KindBranch, name, err)
	}
	var b object.Branch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, object.NewStoreError("get", object.KindBranch, name, fmt.Errorf("decode: %w", err))
	}
	return &b, nil
}

// Create registers a new branch in project p and assigns its ID.
func (s *BranchStore) Create(p object.Project, b *object.Branch) (*object.Branch, error) {
	path, err := s.path(p, b.Name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FS.Exists(path) {
		return nil, fmt.Errorf("branch %q already exists in %s: %w", b.Name, p, object.ErrInvalidOperation)
	}
	if err := s.FS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, object.NewStoreError("create", object.KindBranch, b.Name, err)
	}

	created := *b
	created.ID = s.IDs.NewID(object.KindBranch, []byte(p.String()+"\x00"+b.Name))
	if err := util.WriteJSON(s.FS, path, &created); err != nil {
		return nil, object.NewStoreError("create", object.KindBranch, b.Name, err)
	}
	*b = created
	return &created, nil
}

// Save persists an existing branch, typically after its pointer advanced.
func (s *BranchStore) Save(p object.Project, b *object.Branch) error {
	path, err := s.path(p, b.Name)
	if err != nil {
		return err
	}
	if !s.FS.Exists(path) {
		return object.NotFound(object.KindBranch, b.Name)
	}
	if err := util.WriteJSON(s.FS, path, b); err != nil {
		return object.NewStoreError("save", object.KindBranch, b.Name, err)
	}
	return nil
}

// List returns all branches of project p sorted by name.
func (s *BranchStore) List(p object.Project) ([]*object.Branch, error) {
	dir, err := s.projectDir(p)
	if err != nil {
		return nil, err
	}
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		if s.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, object.NewStoreError("list", object.KindBranch, "", err)
	}

	branches := make([]*object.Branch, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), "tmp-") {
			continue
		}
		b, err := s.read(filepath.Join(dir, e.Name()), e.Name())
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

// FindByID returns the branch of project p with the given identity.
func (s *BranchStore) FindByID(p object.Project, id string) (*object.Branch, error) {
	branches, err := s.List(p)
	if err != nil {
		return nil, err
	}
	for _, b := range branches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, object.NotFound(object.KindBranch, id)
}
