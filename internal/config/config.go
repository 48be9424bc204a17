package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	RepoDir     = ".coderepo"
	BlobsDir    = "blobs"
	TreesDir    = "trees"
	CommitsDir  = "commits"
	BranchesDir = "branches"
	LogsDir     = "logs"
	ConfigFile  = "config.ini"

	RepoPointerFile = ".coderepo-pointer"
	RootEnv         = "CODEREPO_ROOT"
	AuthorEnv       = "CODEREPO_AUTHOR"
)

const (
	DefaultBranch = "master"
)

// Identity modes for stored objects.
const (
	IdentityFresh   = "fresh"   // every put gets a new identity
	IdentityContent = "content" // identity is the content hash
)

// Storage backends.
const (
	BackendOS     = "os"
	BackendMemory = "memory"
)

// RepoConfig holds the resolved settings of one repository root.
type RepoConfig struct {
	Root          string
	DefaultBranch string
	Identity      string
	Backend       string
	Compress      bool
	Author        string
	LogFile       string
	Verbose       bool
}

// NewRepoConfig returns the defaults for root.
func NewRepoConfig(root string) *RepoConfig {
	return &RepoConfig{
		Root:          root,
		DefaultBranch: DefaultBranch,
		Identity:      IdentityFresh,
		Backend:       BackendOS,
	}
}

func (c *RepoConfig) BlobsDir() string    { return filepath.Join(c.Root, BlobsDir) }
func (c *RepoConfig) TreesDir() string    { return filepath.Join(c.Root, TreesDir) }
func (c *RepoConfig) CommitsDir() string  { return filepath.Join(c.Root, CommitsDir) }
func (c *RepoConfig) BranchesDir() string { return filepath.Join(c.Root, BranchesDir) }
func (c *RepoConfig) LogsDir() string     { return filepath.Join(c.Root, LogsDir) }
func (c *RepoConfig) ConfigPath() string  { return filepath.Join(c.Root, ConfigFile) }

// Load reads <root>/config.ini on top of the defaults. A missing file is
// not an error.
func Load(root string) (*RepoConfig, error) {
	cfg := NewRepoConfig(root)

	if _, err := os.Stat(cfg.ConfigPath()); errors.Is(err, os.ErrNotExist) {
		return cfg, cfg.Validate()
	}

	file, err := ini.Load(cfg.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", cfg.ConfigPath(), err)
	}
	if err := cfg.apply(file); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads settings from raw ini data on top of the defaults.
func Parse(root string, data []byte) (*RepoConfig, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg := NewRepoConfig(root)
	if err := cfg.apply(file); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *RepoConfig) apply(file *ini.File) error {
	repo := file.Section("repository")
	c.DefaultBranch = repo.Key("default_branch").MustString(c.DefaultBranch)
	c.Identity = strings.ToLower(repo.Key("identity").MustString(c.Identity))
	c.Backend = strings.ToLower(repo.Key("backend").MustString(c.Backend))
	c.Compress = repo.Key("compress").MustBool(c.Compress)

	c.Author = file.Section("author").Key("name").String()

	log := file.Section("log")
	c.LogFile = log.Key("file").String()
	c.Verbose = log.Key("verbose").MustBool(false)

	return c.Validate()
}

// Save writes the current settings to <root>/config.ini.
func (c *RepoConfig) Save() error {
	file := ini.Empty()
	repo := file.Section("repository")
	repo.Key("default_branch").SetValue(c.DefaultBranch)
	repo.Key("identity").SetValue(c.Identity)
	repo.Key("backend").SetValue(c.Backend)
	repo.Key("compress").SetValue(fmt.Sprintf("%t", c.Compress))
	if c.Author != "" {
		file.Section("author").Key("name").SetValue(c.Author)
	}
	if c.LogFile != "" || c.Verbose {
		log := file.Section("log")
		log.Key("file").SetValue(c.LogFile)
		log.Key("verbose").SetValue(fmt.Sprintf("%t", c.Verbose))
	}

	if err := os.MkdirAll(c.Root, 0o755); err != nil {
		return fmt.Errorf("failed to create dir %q: %w", c.Root, err)
	}
	return file.SaveTo(c.ConfigPath())
}

// Validate rejects unknown modes and an empty default branch name.
func (c *RepoConfig) Validate() error {
	if strings.TrimSpace(c.DefaultBranch) == "" {
		return fmt.Errorf("invalid config: default_branch is empty")
	}
	switch c.Identity {
	case IdentityFresh, IdentityContent:
	default:
		return fmt.Errorf("invalid config: unknown identity mode %q", c.Identity)
	}
	switch c.Backend {
	case BackendOS, BackendMemory:
	default:
		return fmt.Errorf("invalid config: unknown backend %q", c.Backend)
	}
	return nil
}
