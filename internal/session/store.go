package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"diagnose-me/internal/medication"
	"diagnose-me/internal/mood"
)

// State is everything tracked for one patient session. Callers must hold the
// lock (via Do) while touching Medications or Moods.
type State struct {
	ID        uuid.UUID
	CreatedAt time.Time

	now         func() time.Time
	mu          sync.Mutex
	Medications *medication.Scheduler
	Moods       *mood.Tracker
}

func newState(now func() time.Time) *State {
	return &State{
		ID:          uuid.New(),
		CreatedAt:   now(),
		now:         now,
		Medications: medication.NewSchedulerWithClock(now),
		Moods:       mood.NewTracker(),
	}
}

// Do runs fn with the session locked so each user action sees a consistent
// view of its own state.
func (s *State) Do(fn func(s *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Now is the session's clock. Doses are scheduled and moods dated with it.
func (s *State) Now() time.Time {
	return s.now()
}

// Store holds the live sessions of this process.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*State
	now      func() time.Time
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*State),
		now:      now,
	}
}

func (st *Store) Create() *State {
	s := newState(st.now)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id uuid.UUID) (*State, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
