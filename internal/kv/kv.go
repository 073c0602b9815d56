// Package kv provides the single-slot key-value backends the results
// document is persisted in. Every backend stores opaque JSON bytes under a
// string key and offers last-write-wins semantics only.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Backend reads and writes whole values by key.
type Backend interface {
	// Get returns ErrNotFound when nothing was ever stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
