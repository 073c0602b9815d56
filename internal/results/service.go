package results

import (
	"context"
	"log/slog"
)

// Notifier is told about every mutation that reached the store.
type Notifier interface {
	Notify(Outcome)
}

// Service runs the read-modify-write cycle: load the whole document,
// apply one mutation, save the whole document. Concurrent writers are
// last-write-wins as far as the backing store is.
type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

func NewService(store Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

func (s *Service) Get(ctx context.Context) (Document, error) {
	return s.store.Load(ctx)
}

func (s *Service) Apply(ctx context.Context, m Mutation) (Outcome, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return Outcome{}, err
	}

	out := m.Apply(doc)

	if err := s.store.Save(ctx, doc); err != nil {
		return Outcome{}, err
	}

	s.logger.Info("results updated",
		"type", out.Kind,
		"category", out.Category,
		"slot", out.Slot,
		"existed", out.Existed,
	)
	if s.notifier != nil {
		s.notifier.Notify(out)
	}
	return out, nil
}
