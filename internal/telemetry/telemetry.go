package telemetry

import (
	"sync"
	"time"
)

// Store holds the single shared Snapshot. Reads and writes go through one
// mutex, so a reader sees either the previous or the next snapshot in full.
type Store struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewStore returns a store primed with the all-unknown snapshot.
func NewStore() *Store {
	return &Store{snap: UnknownSnapshot()}
}

// Read returns a copy of the current snapshot.
func (s *Store) Read() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snap
}

// Write replaces the stored snapshot. A zero UpdatedAt is stamped with now.
func (s *Store) Write(snap Snapshot) {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}
