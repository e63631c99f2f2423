package profile

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Persister is notified when a profile changes in memory. Persistence is
// asynchronous and best-effort; the store never blocks on it.
type Persister interface {
	MarkDirty(userID string)
}

// Store is the in-memory profile map. All reads hand out deep copies; all
// mutations run under the store lock, so read-modify-write cycles for a
// given user are atomic.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile

	clock     Clock
	persister Persister
	logger    *slog.Logger
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*Profile),
		clock:    realClock{},
		logger:   slog.Default(),
	}
}

// NewStoreWithClock creates a store with a custom clock (for testing).
func NewStoreWithClock(clock Clock) *Store {
	s := NewStore()
	s.clock = clock
	return s
}

// SetPersister wires the async saver. Must be called before serving traffic.
func (s *Store) SetPersister(p Persister) {
	s.persister = p
}

// LoadSnapshot bulk-loads serialized profiles, typically at startup.
// Malformed payloads are skipped with a warning. Returns the loaded count.
func (s *Store) LoadSnapshot(payloads map[string][]byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for userID, raw := range payloads {
		var p Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			s.logger.Warn("skipping malformed stored profile", "user_id", userID, "error", err)
			continue
		}
		p.UserID = userID
		s.profiles[userID] = &p
		loaded++
	}
	return loaded
}

// Get returns a copy of the profile, reporting whether it exists.
func (s *Store) Get(userID string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, false
	}
	return p.Clone(), true
}

// GetOrCreate returns a copy of the profile, creating a default one for an
// unknown user.
func (s *Store) GetOrCreate(userID string) Profile {
	s.mu.Lock()
	p, created := s.getOrCreateLocked(userID)
	cp := p.Clone()
	s.mu.Unlock()

	if created && s.persister != nil {
		s.persister.MarkDirty(userID)
	}
	return cp
}

// Update applies fn to the user's profile under the store lock, creating the
// profile first if needed, and returns a copy of the result.
func (s *Store) Update(userID string, fn func(*Profile)) Profile {
	s.mu.Lock()
	p, _ := s.getOrCreateLocked(userID)
	fn(p)
	p.UpdatedAt = s.clock.Now()
	cp := p.Clone()
	s.mu.Unlock()

	if s.persister != nil {
		s.persister.MarkDirty(userID)
	}
	return cp
}

func (s *Store) getOrCreateLocked(userID string) (*Profile, bool) {
	if p, ok := s.profiles[userID]; ok {
		return p, false
	}
	p := NewProfile(userID, s.clock.Now())
	s.profiles[userID] = p
	return p, true
}

// Delete removes the profile from memory. Reports whether it existed.
func (s *Store) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.profiles[userID]
	delete(s.profiles, userID)
	return ok
}

// Snapshot serializes the named profile for persistence.
func (s *Store) Snapshot(userID string) ([]byte, bool) {
	s.mu.RLock()
	p, ok := s.profiles[userID]
	if !ok {
		s.mu.RUnlock()
		return nil, false
	}
	cp := p.Clone()
	s.mu.RUnlock()

	raw, err := json.Marshal(&cp)
	if err != nil {
		s.logger.Error("marshalling profile snapshot", "user_id", userID, "error", err)
		return nil, false
	}
	return raw, true
}

// Count returns the number of profiles held in memory.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// UserIDs returns all known user IDs in sorted order.
func (s *Store) UserIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
