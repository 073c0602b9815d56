package levels

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Source holds the current dataset of a levels file and can follow edits
// to it.
type Source struct {
	path   string
	logger *slog.Logger

	mu   sync.RWMutex
	data Dataset
}

// NewSource loads path once. The file must exist and parse.
func NewSource(path string, logger *slog.Logger) (*Source, error) {
	d, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Source{path: path, logger: logger, data: d}, nil
}

// Dataset returns the current dataset. Callers must not modify it.
func (s *Source) Dataset() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Reload re-reads the file. On error the previous dataset is kept.
func (s *Source) Reload() error {
	d, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = d
	s.mu.Unlock()
	return nil
}

// Watch reloads the dataset whenever the file is written or replaced,
// until ctx is done. The parent directory is watched so that editors
// which save via rename are picked up.
func (s *Source) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching %s: %w", s.path, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("levels reload failed, keeping previous dataset", "path", s.path, "error", err)
				continue
			}
			s.logger.Info("levels reloaded", "path", s.path, "categories", len(s.Dataset()))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("levels watcher error", "error", err)
		}
	}
}
