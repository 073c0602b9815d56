package client

import (
	"sync"

	"github.com/playperu/bracket/internal/results"
)

// Mirror is the local copy of the results document. It only changes
// through Replace (a fresh fetch) or Reconcile (a mutation the store has
// accepted).
type Mirror struct {
	mu    sync.RWMutex
	doc   results.Document
	stale bool
}

// NewMirror returns an empty mirror marked stale.
func NewMirror() *Mirror {
	return &Mirror{doc: results.Document{}, stale: true}
}

func (m *Mirror) Replace(doc results.Document) {
	if doc == nil {
		doc = results.Document{}
	}
	m.mu.Lock()
	m.doc = doc.Clone()
	m.stale = false
	m.mu.Unlock()
}

// Snapshot returns a deep copy of the current document.
func (m *Mirror) Snapshot() results.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone()
}

func (m *Mirror) Lookup(category, slot string) (results.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Lookup(category, slot)
}

// Reconcile applies a mutation the store has already accepted, using the
// same rules as the store.
func (m *Mirror) Reconcile(mu results.Mutation) results.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return mu.Apply(m.doc)
}

// Invalidate marks the mirror stale so the next refresh refetches.
func (m *Mirror) Invalidate() {
	m.mu.Lock()
	m.stale = true
	m.mu.Unlock()
}

func (m *Mirror) Stale() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stale
}
