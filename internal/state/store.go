package state

import (
	"sync"
	"time"

	"github.com/five82/courier/internal/dispatch"
)

const defaultHistoryLimit = 50

// Snapshot represents the dispatch history available to the UI.
type Snapshot struct {
	Last                dispatch.Outcome
	HasLast             bool
	History             []dispatch.Outcome // newest first
	InFlight            int
	Sent                int
	Rejected            int
	Failed              int
	LastUpdated         time.Time
	ConsecutiveFailures int // transport failures in a row
}

// IsOffline returns true when the endpoint has been unreachable for several calls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates from dispatches running off the UI loop.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	// Limit caps History; zero means 50.
	Limit int
}

// Begin marks a dispatch as started.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.InFlight++
}

// Record stores a finished dispatch. Rejections do not touch the failure
// streak because nothing was sent.
func (s *Store) Record(o dispatch.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.InFlight > 0 {
		s.snapshot.InFlight--
	}
	switch o.State {
	case dispatch.StateRejected:
		s.snapshot.Rejected++
	case dispatch.StateFailed:
		s.snapshot.Sent++
		s.snapshot.Failed++
		s.snapshot.ConsecutiveFailures++
	case dispatch.StateSucceeded:
		s.snapshot.Sent++
		s.snapshot.ConsecutiveFailures = 0
	}

	limit := s.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	history := make([]dispatch.Outcome, 0, min(len(s.snapshot.History)+1, limit))
	history = append(history, o)
	for _, prev := range s.snapshot.History {
		if len(history) == limit {
			break
		}
		history = append(history, prev)
	}

	s.snapshot.History = history
	s.snapshot.Last = o
	s.snapshot.HasLast = true
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.History = cloneHistory(s.snapshot.History)
	return snap
}

func cloneHistory(items []dispatch.Outcome) []dispatch.Outcome {
	if len(items) == 0 {
		return nil
	}
	dup := make([]dispatch.Outcome, len(items))
	copy(dup, items)
	return dup
}
