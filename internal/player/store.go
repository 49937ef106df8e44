package player

import "sync/atomic"

// Store publishes poses from the simulation goroutine to renderers.
// A reader always observes a whole pose from a single Publish.
type Store struct {
	current atomic.Pointer[Pose]
}

// NewStore creates a store holding the initial pose.
func NewStore(initial Pose) *Store {
	s := &Store{}
	s.Publish(initial)
	return s
}

// Publish replaces the visible pose.
func (s *Store) Publish(p Pose) {
	s.current.Store(&p)
}

// Load returns the most recently published pose.
func (s *Store) Load() Pose {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return Pose{}
}
