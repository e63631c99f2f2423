// Package persist drains dirty profiles to storage on a polling loop.
// Persistence is best-effort: a crash loses at most one poll window of
// updates, which the service accepts by design of the event model.
package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Snapshotter serializes a profile for storage. Implemented by
// profile.Store.
type Snapshotter interface {
	Snapshot(userID string) ([]byte, bool)
}

// ProfileWriter writes serialized profiles. Implemented by storage.Store.
type ProfileWriter interface {
	SaveProfile(userID string, payload []byte) error
}

// Saver tracks dirty users and flushes them periodically.
type Saver struct {
	profiles Snapshotter
	db       ProfileWriter
	poll     time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	dirty map[string]struct{}
}

// NewSaver creates a Saver. If pollInterval is <= 0, it defaults to 2s.
func NewSaver(profiles Snapshotter, db ProfileWriter, pollInterval time.Duration) *Saver {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Saver{
		profiles: profiles,
		db:       db,
		poll:     pollInterval,
		logger:   slog.Default(),
		dirty:    make(map[string]struct{}),
	}
}

// MarkDirty queues a user for the next flush. Never blocks.
func (s *Saver) MarkDirty(userID string) {
	s.mu.Lock()
	s.dirty[userID] = struct{}{}
	s.mu.Unlock()
}

// Forget drops a user from the dirty queue, typically after deletion.
func (s *Saver) Forget(userID string) {
	s.mu.Lock()
	delete(s.dirty, userID)
	s.mu.Unlock()
}

// Run flushes on every poll tick until ctx is cancelled, then performs a
// final flush so a clean shutdown loses nothing.
func (s *Saver) Run(ctx context.Context) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if _, err := s.Flush(); err != nil {
				s.logger.Error("final profile flush failed", "error", err)
			}
			return
		case <-ticker.C:
			if _, err := s.Flush(); err != nil {
				s.logger.Warn("profile flush incomplete", "error", err)
			}
		}
	}
}

// Flush writes every dirty profile. Users whose write fails stay dirty for
// the next attempt. Returns the number saved.
func (s *Saver) Flush() (int, error) {
	s.mu.Lock()
	batch := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		batch = append(batch, id)
	}
	s.dirty = make(map[string]struct{})
	s.mu.Unlock()

	saved := 0
	var failed []string
	for _, userID := range batch {
		payload, ok := s.profiles.Snapshot(userID)
		if !ok {
			// Deleted between mark and flush.
			continue
		}
		if err := s.db.SaveProfile(userID, payload); err != nil {
			s.logger.Warn("saving profile", "user_id", userID, "error", err)
			failed = append(failed, userID)
			continue
		}
		saved++
	}

	if len(failed) > 0 {
		s.mu.Lock()
		for _, id := range failed {
			s.dirty[id] = struct{}{}
		}
		s.mu.Unlock()
		return saved, fmt.Errorf("%d of %d profile saves failed", len(failed), len(batch))
	}
	return saved, nil
}
