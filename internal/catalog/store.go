package catalog

import (
	"sync/atomic"
	"time"
)

// Dataset is an immutable snapshot of the loaded catalog.
type Dataset struct {
	Source   string // "builtin" or the catalog file path
	LoadedAt time.Time
	Targets  []Target
}

// Store provides thread-safe access to the current catalog dataset.
// The dataset pointer is swapped atomically; readers never block writers.
type Store struct {
	dataset atomic.Pointer[Dataset]
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current dataset, or nil if none has been loaded.
func (s *Store) Get() *Dataset {
	return s.dataset.Load()
}

// Set atomically replaces the current dataset.
func (s *Store) Set(ds *Dataset) {
	s.dataset.Store(ds)
}

// Find returns the target with the given ID, or false if absent.
func (s *Store) Find(id string) (Target, bool) {
	ds := s.dataset.Load()
	if ds == nil {
		return Target{}, false
	}
	for _, t := range ds.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return Target{}, false
}

// Count returns the number of loaded targets.
func (s *Store) Count() int {
	ds := s.dataset.Load()
	if ds == nil {
		return 0
	}
	return len(ds.Targets)
}

// AgeSeconds returns the age of the current dataset in seconds.
// Returns -1 if no dataset is loaded.
func (s *Store) AgeSeconds() float64 {
	ds := s.dataset.Load()
	if ds == nil {
		return -1
	}
	return time.Since(ds.LoadedAt).Seconds()
}
