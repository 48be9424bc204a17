// Package object defines the immutable snapshot objects (blobs, trees,
// commits), the mutable branch pointer, and the store contracts the
// engine consumes.
package object

import "strings"

// Object kinds as stored.
const (
	KindBlob   = "blob"
	KindTree   = "tree"
	KindCommit = "commit"
	KindBranch = "branch"
)

// RootName is the directory name of every root tree.
const RootName = "/"

// Separator splits a FileEdit path into segments.
const Separator = "/"

// Blob is a named file-content leaf.
type Blob struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// Equivalent compares file name and content, ignoring identity.
func (b *Blob) Equivalent(other *Blob) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.FileName == other.FileName && b.Content == other.Content
}

// Ref points at a child object by identity. Name is the child's directory
// or file name, so a tree can be searched without loading its children.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tree is a directory node. Child order is insertion order.
type Tree struct {
	ID      string `json:"id"`
	DirName string `json:"dirName"`
	Trees   []Ref  `json:"trees"`
	Blobs   []Ref  `json:"blobs"`
}

// FindTree returns the child tree ref named name.
func (t *Tree) FindTree(name string) (Ref, bool) {
	return findRef(t.Trees, name)
}

// FindBlob returns the blob ref named name.
func (t *Tree) FindBlob(name string) (Ref, bool) {
	return findRef(t.Blobs, name)
}

func findRef(refs []Ref, name string) (Ref, bool) {
	for _, r := range refs {
		if r.Name == name {
			return r, true
		}
	}
	return Ref{}, false
}

// Commit links a root tree to its message, author and previous commit.
// PreviousCommit is empty for the first commit of a history.
type Commit struct {
	ID             string `json:"id"`
	Author         string `json:"author"`
	Message        string `json:"message"`
	PreviousCommit string `json:"previousCommit,omitempty"`
	CodeRoot       string `json:"codeRoot"`
	Timestamp      string `json:"timestamp"`
}

// Branch is a named pointer to the latest commit of one line of history.
type Branch struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LatestCommit string `json:"latestCommit,omitempty"`
}

// HasCommits reports whether the branch points at a commit.
func (b *Branch) HasCommits() bool { return b != nil && b.LatestCommit != "" }

// Project scopes branch names. Owner is the owning profile's username.
type Project struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (p Project) String() string { return p.Owner + "/" + p.Name }

// ParseProject parses "owner/name".
func ParseProject(s string) (Project, bool) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Project{}, false
	}
	return Project{Owner: owner, Name: name}, true
}

// FileEdit is one entry of a change set. Empty strings mean absent. A path
// ending with Separator is a pure directory placeholder.
type FileEdit struct {
	Content      string `json:"content"`
	Path         string `json:"path"`
	PreviousPath string `json:"previousPath,omitempty"`
}

// IsDirectory reports whether p denotes a directory placeholder.
func IsDirectory(p string) bool {
	return strings.HasSuffix(p, Separator)
}

// WritesFile reports whether the edit creates a blob at Path.
func (e FileEdit) WritesFile() bool {
	return e.Path != "" && !IsDirectory(e.Path)
}

// RemovesPrevious reports whether the edit prunes the file at PreviousPath.
func (e FileEdit) RemovesPrevious() bool {
	return e.PreviousPath != "" && e.PreviousPath != e.Path && !IsDirectory(e.PreviousPath)
}

// SplitPath splits a file path into its directory segments and file name.
// Leading separators and empty segments are dropped, so "/x/f.txt" and
// "x//f.txt" both yield (["x"], "f.txt").
func SplitPath(p string) (dirs []string, file string) {
	var segs []string
	for _, s := range strings.Split(p, Separator) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	switch len(segs) {
	case 0:
		return nil, ""
	case 1:
		return nil, segs[0]
	}
	return segs[:len(segs)-1], segs[len(segs)-1]
}
