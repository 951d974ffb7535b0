package state

import (
	"sync"

	"github.com/lifeosapp/lifeos-api/internal/models"
)

// Snapshot is an immutable view of the client collections. Slices returned
// from the store are copies; mutating them never affects the store.
type Snapshot struct {
	Goals      []models.Goal
	Tasks      []models.Task
	Habits     []models.Habit
	Milestones []models.Milestone
	Notes      []models.Note
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Goals:      append([]models.Goal(nil), s.Goals...),
		Tasks:      append([]models.Task(nil), s.Tasks...),
		Habits:     append([]models.Habit(nil), s.Habits...),
		Milestones: append([]models.Milestone(nil), s.Milestones...),
		Notes:      append([]models.Note(nil), s.Notes...),
	}
}

// Store is an explicit state container: readers get snapshot copies, writers
// go through Update, and subscribers are notified over channels. There is no
// shared mutable state outside the store.
type Store struct {
	mu     sync.RWMutex
	state  Snapshot
	subs   map[int]chan Snapshot
	nextID int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{subs: make(map[int]chan Snapshot)}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Update applies fn to a copy of the current state, installs the result and
// notifies subscribers. fn must not retain the snapshot it receives.
func (s *Store) Update(fn func(Snapshot) Snapshot) {
	s.mu.Lock()
	s.state = fn(s.state.clone())
	notified := s.state
	subs := make([]chan Snapshot, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		// Coalesce: drop a stale pending snapshot so slow subscribers
		// always see the latest state rather than blocking updates
		select {
		case <-ch:
		default:
		}
		// Each subscriber gets its own clone; mutating a received
		// snapshot can never leak into another subscriber's view
		select {
		case ch <- notified.clone():
		default:
		}
	}
}

// Subscribe returns a channel receiving snapshots after each update, plus an
// unsubscribe function. The channel has a buffer of one and coalesces missed
// updates to the latest snapshot.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, unsubscribe
}
