package results

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/bracket/internal/kv"
)

// DefaultKey is the key the document has always been stored under.
const DefaultKey = "resultats"

// Store loads and saves the whole document.
type Store interface {
	// Load returns an empty document when nothing has been saved yet.
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// KVStore keeps the document JSON-encoded under one key of a kv.Backend.
type KVStore struct {
	backend kv.Backend
	key     string
}

func NewKVStore(backend kv.Backend, key string) *KVStore {
	if key == "" {
		key = DefaultKey
	}
	return &KVStore{backend: backend, key: key}
}

func (s *KVStore) Load(ctx context.Context) (Document, error) {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", s.key, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", s.key, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

func (s *KVStore) Save(ctx context.Context, doc Document) error {
	if doc == nil {
		doc = Document{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", s.key, err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("writing %q: %w", s.key, err)
	}
	return nil
}
