package object

// BlobStore persists blobs. Put assigns the identity and returns it.
type BlobStore interface {
	GetBlob(id string) (*Blob, error)
	PutBlob(b *Blob) (string, error)
	UpdateBlob(b *Blob) error
	DeleteBlob(id string) error
}

// TreeStore persists trees.
type TreeStore interface {
	GetTree(id string) (*Tree, error)
	PutTree(t *Tree) (string, error)
	UpdateTree(t *Tree) error
	DeleteTree(id string) error
}

// CommitStore persists commits.
type CommitStore interface {
	GetCommit(id string) (*Commit, error)
	PutCommit(c *Commit) (string, error)
	UpdateCommit(c *Commit) error
	DeleteCommit(id string) error
}

// Store is the object store: one keyspace per kind. Get returns an error
// matching ErrNotFound for an unknown identity. Implementations must be
// safe for concurrent use.
type Store interface {
	BlobStore
	TreeStore
	CommitStore
}
