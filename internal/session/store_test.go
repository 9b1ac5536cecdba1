package session

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"diagnose-me/internal/medication"
	"diagnose-me/internal/mood"
)

func TestStore_SessionsAreIsolated(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	st := NewStoreWithClock(func() time.Time { return now })

	a, b := st.Create(), st.Create()
	if a.ID == b.ID {
		t.Fatalf("duplicate session id")
	}

	a.Do(func(s *State) {
		s.Medications.Add("Metformin", "500mg", medication.Daily)
		s.Moods.Record(mood.Good, now)
	})

	b.Do(func(s *State) {
		if got := s.Medications.DueReminders(now); len(got) != 0 {
			t.Fatalf("session b sees a's medications: %v", got)
		}
		if s.Moods.Len() != 0 {
			t.Fatalf("session b sees a's moods")
		}
	})

	got, ok := st.Get(a.ID)
	if !ok || got != a {
		t.Fatalf("lookup failed")
	}
	got.Do(func(s *State) {
		if r := s.Medications.DueReminders(now); len(r) != 1 {
			t.Fatalf("reminders=%v", r)
		}
	})

	if _, ok := st.Get(uuid.New()); ok {
		t.Fatalf("unknown id should not resolve")
	}
	if st.Len() != 2 {
		t.Fatalf("len=%d", st.Len())
	}
	if !a.Now().Equal(now) {
		t.Fatalf("session clock=%v", a.Now())
	}
}
