package medication

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Frequency string

const (
	Daily      Frequency = "daily"
	TwiceDaily Frequency = "twice_daily"
)

// ParseFrequency lower-cases the input so "Daily" and "Twice_Daily" map onto
// the known values. Anything else is kept verbatim.
func ParseFrequency(s string) Frequency {
	return Frequency(strings.ToLower(strings.TrimSpace(s)))
}

// Interval is the time between doses, or zero for an unknown frequency.
func (f Frequency) Interval() time.Duration {
	switch f {
	case Daily:
		return 24 * time.Hour
	case TwiceDaily:
		return 12 * time.Hour
	default:
		return 0
	}
}

type Medication struct {
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency Frequency `json:"frequency"`
	NextDose  time.Time `json:"next_dose"`
}

// Scheduler tracks medications by name in insertion order.
// It is not safe for concurrent use.
type Scheduler struct {
	order []string
	meds  map[string]*Medication
	now   func() time.Time
}

func NewScheduler() *Scheduler {
	return NewSchedulerWithClock(time.Now)
}

func NewSchedulerWithClock(now func() time.Time) *Scheduler {
	return &Scheduler{
		meds: make(map[string]*Medication),
		now:  now,
	}
}

// Add inserts or replaces the medication and marks it due immediately.
// Replacing keeps the original insertion position.
func (s *Scheduler) Add(name, dosage string, freq Frequency) {
	if _, ok := s.meds[name]; !ok {
		s.order = append(s.order, name)
	}
	s.meds[name] = &Medication{
		Name:      name,
		Dosage:    dosage,
		Frequency: freq,
		NextDose:  s.now(),
	}
}

// DueReminders returns a reminder for every medication due at now and moves
// its next dose one interval past now. A medication with an unknown
// frequency is never advanced and so fires on every call.
func (s *Scheduler) DueReminders(now time.Time) []string {
	due := lo.Filter(s.order, func(name string, _ int) bool {
		return !now.Before(s.meds[name].NextDose)
	})
	return lo.Map(due, func(name string, _ int) string {
		m := s.meds[name]
		if iv := m.Frequency.Interval(); iv > 0 {
			m.NextDose = now.Add(iv)
		}
		return reminderText(m)
	})
}

// List returns copies of the tracked medications in insertion order.
func (s *Scheduler) List() []Medication {
	return lo.Map(s.order, func(name string, _ int) Medication {
		return *s.meds[name]
	})
}

func (s *Scheduler) Get(name string) (Medication, bool) {
	m, ok := s.meds[name]
	if !ok {
		return Medication{}, false
	}
	return *m, true
}

func reminderText(m *Medication) string {
	return fmt.Sprintf("Time to take %s - Dosage: %s", m.Name, m.Dosage)
}
