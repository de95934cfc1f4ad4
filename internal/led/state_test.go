package led

import (
	"sync"
	"testing"
)

func TestState_StartsOff(t *testing.T) {
	s := NewState()
	if s.On() {
		t.Fatal("new state should be OFF")
	}
	snap := s.Snapshot()
	if snap.On || snap.Toggles != 0 || !snap.ChangedAt.IsZero() {
		t.Errorf("unexpected initial snapshot %+v", snap)
	}
}

func TestState_ToggleAlternates(t *testing.T) {
	s := NewState()
	for i := uint64(1); i <= 6; i++ {
		on, seq := s.Toggle()
		if seq != i {
			t.Errorf("toggle %d: seq = %d", i, seq)
		}
		if want := i%2 == 1; on != want {
			t.Errorf("toggle %d: on = %v, want %v", i, on, want)
		}
	}
	if snap := s.Snapshot(); snap.Toggles != 6 || snap.On || snap.ChangedAt.IsZero() {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestState_ConcurrentToggles(t *testing.T) {
	const workers = 64
	const perWorker = 25

	s := NewState()
	seen := make(chan uint64, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				_, seq := s.Toggle()
				seen <- seq
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]struct{})
	for seq := range seen {
		if _, dup := unique[seq]; dup {
			t.Fatalf("sequence %d observed twice", seq)
		}
		unique[seq] = struct{}{}
	}

	total := workers * perWorker
	if len(unique) != total {
		t.Errorf("got %d distinct sequences, want %d", len(unique), total)
	}
	if want := total%2 == 1; s.On() != want {
		t.Errorf("final state = %v, want %v", s.On(), want)
	}
}
