package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/bracket/internal/results"
)

// ChangeEvent is the payload sent to change-feed subscribers.
type ChangeEvent struct {
	Type     results.Kind    `json:"type"`
	Category string          `json:"category"`
	Slot     string          `json:"slot"`
	Saved    *results.Record `json:"saved,omitempty"`
}

// Broker is an in-process pub/sub for result changes.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan []byte]struct{})}
}

// Subscribe returns a channel that receives JSON-encoded change events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Notify implements results.Notifier.
func (b *Broker) Notify(o results.Outcome) {
	data, _ := json.Marshal(ChangeEvent{
		Type:     o.Kind,
		Category: o.Category,
		Slot:     o.Slot,
		Saved:    o.Saved,
	})
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Full buffer: this subscriber misses the event but stays subscribed.
		}
	}
	b.mu.RUnlock()
}
