// Package ident assigns identities to stored objects as hex xxh3-128 digests.
package ident

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/keshon/coderepo/internal/config"
)

// Generator produces the identity of an object from its kind and payload.
type Generator interface {
	NewID(kind string, payload []byte) string
	// ContentAddressed reports whether equal payloads share an identity.
	ContentAddressed() bool
}

// New returns the generator for a configured identity mode.
func New(mode string) (Generator, error) {
	switch mode {
	case config.IdentityFresh, "":
		return NewFresh(), nil
	case config.IdentityContent:
		return Content{}, nil
	default:
		return nil, fmt.Errorf("unknown identity mode %q", mode)
	}
}

// Fresh gives every object a new identity, even when its payload matches
// an object stored earlier.
type Fresh struct {
	seq  atomic.Uint64
	salt [16]byte
}

func NewFresh() *Fresh {
	f := &Fresh{}
	binary.LittleEndian.PutUint64(f.salt[:8], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(f.salt[8:], uint64(os.Getpid()))
	return f
}

func (f *Fresh) NewID(kind string, payload []byte) string {
	var nonce [8]byte
	binary.LittleEndian.PutUint64(nonce[:], f.seq.Add(1))

	data := make([]byte, 0, len(f.salt)+len(nonce)+len(kind)+1+len(payload))
	data = append(data, f.salt[:]...)
	data = append(data, nonce[:]...)
	data = append(data, kind...)
	data = append(data, 0)
	data = append(data, payload...)
	return hash(data)
}

func (f *Fresh) ContentAddressed() bool { return false }

// Content derives the identity from kind and payload only.
type Content struct{}

func (Content) NewID(kind string, payload []byte) string {
	data := make([]byte, 0, len(kind)+1+len(payload))
	data = append(data, kind...)
	data = append(data, 0)
	data = append(data, payload...)
	return hash(data)
}

func (Content) ContentAddressed() bool { return true }

func hash(data []byte) string {
	h := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(h[:])
}
