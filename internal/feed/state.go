// Package feed holds the fetched image list and turns it into a view.
package feed

import (
	"sync"

	"timeline/internal/models"
)

// Snapshot is an immutable copy of the feed state.
type Snapshot struct {
	Records []models.ImageRecord
	Loading bool
}

// State owns the record list and the loading flag. The list is only ever replaced
// as a whole; records are never edited in place.
type State struct {
	mu      sync.RWMutex
	records []models.ImageRecord
	loading bool
}

// NewState returns an empty, idle feed.
func NewState() *State {
	return &State{}
}

// SetLoading sets the loading flag.
func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Replace swaps in a new list.
func (s *State) Replace(records []models.ImageRecord) {
	next := make([]models.ImageRecord, len(records))
	copy(next, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = next
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.ImageRecord, len(s.records))
	copy(records, s.records)

	return Snapshot{Records: records, Loading: s.loading}
}
