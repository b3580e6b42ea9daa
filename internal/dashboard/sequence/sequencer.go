// Package sequence orders concurrent refreshes of the same view, or writes to
// the same snapshot, so that only the most recently issued one is applied.
package sequence

import "sync"

// Sequencer issues monotonically increasing tokens per key
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// New creates an empty sequencer
func New() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Key joins a view and a client id into a sequencing key
func Key(view, client string) string {
	return view + "/" + client
}

// Issue returns a new token for key; it supersedes every earlier token
func (s *Sequencer) Issue(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[key]++
	return s.latest[key]
}

// IsLatest reports whether token is still the newest token issued for key
func (s *Sequencer) IsLatest(key string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest[key] == token
}

// ApplyIfLatest runs fn if token is still the newest token for key. No token
// can be issued for any key while fn runs. It reports whether fn ran.
func (s *Sequencer) ApplyIfLatest(key string, token uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest[key] != token {
		return false
	}
	fn()
	return true
}

// Supersede issues a new token for key and runs fn before any older token can
// be applied
func (s *Sequencer) Supersede(key string, fn func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[key]++
	fn()
	return s.latest[key]
}
