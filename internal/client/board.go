package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/bracket/internal/levels"
	"github.com/playperu/bracket/internal/results"
)

var (
	ErrMissingEditKey = errors.New("edit key required")
	ErrSaveFailed     = errors.New("could not save result")
	ErrClearFailed    = errors.New("could not clear result")
)

// Board keeps the mirror, the levels dataset and an optional display in
// step with the store.
type Board struct {
	client *Client
	mirror *Mirror
	logger *slog.Logger

	mu      sync.RWMutex
	levels  levels.Dataset
	display Display
}

func NewBoard(c *Client, logger *slog.Logger) *Board {
	return &Board{
		client: c,
		mirror: NewMirror(),
		logger: logger,
		levels: levels.Dataset{},
	}
}

func (b *Board) Mirror() *Mirror { return b.mirror }

// Load fetches the levels dataset and the results concurrently. A failed
// results fetch leaves an empty mirror. A failed levels fetch is returned,
// after the results have still been applied.
func (b *Board) Load(ctx context.Context) error {
	var (
		g   errgroup.Group
		ds  levels.Dataset
		doc results.Document
	)

	g.Go(func() error {
		var err error
		ds, err = b.client.FetchLevels(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		doc, err = b.client.FetchResults(ctx)
		if err != nil {
			b.logger.Warn("results unavailable, starting empty", "error", err)
			doc = results.Document{}
		}
		return nil
	})
	levelsErr := g.Wait()

	b.mirror.Replace(doc)
	if levelsErr == nil {
		b.mu.Lock()
		b.levels = ds
		b.mu.Unlock()
	}
	b.redraw(nil)

	if levelsErr != nil {
		return fmt.Errorf("loading levels: %w", levelsErr)
	}
	return nil
}

// ApplyToDisplay overlays the mirror onto d and remembers d for later
// saves, clears and refreshes. Slots without a result are left alone.
func (b *Board) ApplyToDisplay(d Display) {
	b.mu.Lock()
	b.display = d
	b.mu.Unlock()
	b.redraw(nil)
}

// redraw shows every known result. Slots listed in gone are reset.
func (b *Board) redraw(gone []SlotRef) {
	b.mu.RLock()
	d := b.display
	b.mu.RUnlock()
	if d == nil {
		return
	}

	for _, ref := range gone {
		d.Reset(ref)
	}
	doc := b.mirror.Snapshot()
	for _, ref := range d.Slots() {
		if rec, ok := doc.Lookup(ref.Category, ref.Slot); ok {
			d.Show(ref, rec)
		}
	}
}

// Save writes a result. The mirror and display only change once the
// store has accepted it.
func (b *Board) Save(ctx context.Context, category, slot, team, score, field, editKey string) (results.Record, error) {
	if strings.TrimSpace(editKey) == "" {
		return results.Record{}, ErrMissingEditKey
	}
	req := results.SaveRequest{Category: category, Slot: slot, Team: team, Score: score, Field: field}
	if err := b.client.PutSave(ctx, req, editKey); err != nil {
		return results.Record{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	b.mirror.Reconcile(req)
	rec := req.Record()
	b.mu.RLock()
	d := b.display
	b.mu.RUnlock()
	if d != nil {
		d.Show(SlotRef{Category: category, Slot: slot}, rec)
	}
	return rec, nil
}

// Clear removes a result, with the same failure policy as Save.
func (b *Board) Clear(ctx context.Context, category, slot, editKey string) error {
	if strings.TrimSpace(editKey) == "" {
		return ErrMissingEditKey
	}
	req := results.ClearRequest{Category: category, Slot: slot}
	if err := b.client.PutClear(ctx, req, editKey); err != nil {
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}

	b.mirror.Reconcile(req)
	b.mu.RLock()
	d := b.display
	b.mu.RUnlock()
	if d != nil {
		d.Reset(SlotRef{Category: category, Slot: slot})
	}
	return nil
}

// Refresh refetches the results if the mirror has been invalidated.
// Slots that disappeared remotely are reset on the display.
func (b *Board) Refresh(ctx context.Context) error {
	if !b.mirror.Stale() {
		return nil
	}
	doc, err := b.client.FetchResults(ctx)
	if err != nil {
		return fmt.Errorf("refreshing results: %w", err)
	}

	before := b.mirror.Snapshot()
	b.mirror.Replace(doc)

	var gone []SlotRef
	for _, ref := range SlotsOf(before) {
		if _, ok := doc.Lookup(ref.Category, ref.Slot); !ok {
			gone = append(gone, ref)
		}
	}
	b.redraw(gone)
	return nil
}

// Follow consumes the change feed until ctx is done. Every change
// invalidates the mirror and refreshes it; onChange, if set, runs after.
func (b *Board) Follow(ctx context.Context, onChange func(Change)) error {
	return b.client.Events(ctx, func(ch Change) {
		b.mirror.Invalidate()
		if err := b.Refresh(ctx); err != nil {
			b.logger.Warn("refresh after change failed", "category", ch.Category, "slot", ch.Slot, "error", err)
		}
		if onChange != nil {
			onChange(ch)
		}
	})
}

// Teams lists the candidate teams offered when editing a slot of category.
func (b *Board) Teams(category string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.levels.Teams(category)
}

func (b *Board) Categories() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.levels.Categories()
}

// Snapshot is a copy of the mirrored document.
func (b *Board) Snapshot() results.Document { return b.mirror.Snapshot() }
