package led

import (
	"sync"
	"time"
)

// Snapshot is a read-only view of the LED state.
type Snapshot struct {
	On        bool      `json:"on"`
	Toggles   uint64    `json:"toggles"`
	ChangedAt time.Time `json:"changed_at"`
}

// State owns the process-wide LED boolean. It starts OFF and is never persisted.
type State struct {
	mu        sync.Mutex
	on        bool
	toggles   uint64
	changedAt time.Time
}

// NewState returns a state cell in the OFF position.
func NewState() *State {
	return &State{}
}

// Toggle flips the state and returns the new value together with the
// sequence number of this flip (1 for the first toggle).
func (s *State) Toggle() (on bool, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.on = !s.on
	s.toggles++
	s.changedAt = time.Now()
	return s.on, s.toggles
}

// On reports the current value.
func (s *State) On() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on
}

// Snapshot returns the current value, toggle count and time of last change.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{On: s.on, Toggles: s.toggles, ChangedAt: s.changedAt}
}
