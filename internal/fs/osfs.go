package fs

import (
	"errors"
	"io"
	"os"
)

// OSFS is a production implementation of FS using the standard library.
// Reads go through a memory-mapped reader.
type OSFS struct{}

func NewOSFS() *OSFS {
	return &OSFS{}
}

func (r *OSFS) ReadFile(path string) ([]byte, error) {
	m, err := openMapped(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	// a zero-length mapping reports itself as closed on ReadAt
	if m.Len() == 0 {
		return []byte{}, nil
	}

	data := make([]byte, m.Len())
	if _, err := m.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return data, nil
}

func (r *OSFS) Stat(path string) (os.FileInfo, error) {
	return stat(path)
}

func (r *OSFS) ReadDir(path string) ([]os.DirEntry, error) {
	return readDir(path)
}

func (r *OSFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return writeFile(path, data, perm)
}

func (r *OSFS) MkdirAll(path string, perm os.FileMode) error {
	return mkdirAll(path, perm)
}

func (r *OSFS) Remove(path string) error {
	return remove(path)
}

func (r *OSFS) Rename(oldPath, newPath string) error {
	return rename(oldPath, newPath)
}

func (r *OSFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	f, err := createTemp(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return f, f.Name(), nil
}

func (r *OSFS) IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func (r *OSFS) Exists(path string) bool {
	_, err := stat(path)
	return err == nil
}
