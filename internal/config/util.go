package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveRepoRoot determines the actual repository root.
// CODEREPO_ROOT wins, then a .coderepo-pointer file, then .coderepo.
func ResolveRepoRoot() string {
	if env := strings.TrimSpace(os.Getenv(RootEnv)); env != "" {
		return filepath.Clean(env)
	}

	root := RepoDir
	if fi, err := os.Stat(RepoPointerFile); err == nil && !fi.IsDir() {
		if data, err := os.ReadFile(RepoPointerFile); err == nil {
			target := filepath.Clean(strings.TrimSpace(string(data)))
			if filepath.IsAbs(target) {
				root = target
			} else {
				root = filepath.Join(".", target)
			}
		}
	}
	return root
}

// ResolveAuthor returns the configured author, falling back to
// CODEREPO_AUTHOR and then USER.
func (c *RepoConfig) ResolveAuthor() string {
	if c.Author != "" {
		return c.Author
	}
	if a := strings.TrimSpace(os.Getenv(AuthorEnv)); a != "" {
		return a
	}
	return os.Getenv("USER")
}
