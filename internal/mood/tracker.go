package mood

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Retention is the number of days kept by a Tracker.
const Retention = 7

const dateLayout = "2006-01-02"

type Label string

const (
	VeryBad  Label = "very_bad"
	Bad      Label = "bad"
	Neutral  Label = "neutral"
	Good     Label = "good"
	VeryGood Label = "very_good"
)

var ErrUnknownLabel = errors.New("unknown mood label")

// ParseLabel accepts both the wire form ("very_good") and the display form
// ("Very Good").
func ParseLabel(s string) (Label, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	l := Label(norm)
	switch l {
	case VeryBad, Bad, Neutral, Good, VeryGood:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

// Message is the text stored for a day with this label.
func (l Label) Message() string {
	switch l {
	case VeryBad:
		return "Feeling very bad"
	case Bad:
		return "Feeling bad"
	case Neutral:
		return "Feeling neutral"
	case Good:
		return "Feeling good"
	case VeryGood:
		return "Feeling very good"
	default:
		return string(l)
	}
}

type Entry struct {
	Date    time.Time `json:"date"`
	Label   Label     `json:"mood"`
	Message string    `json:"message"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %s", e.Date.Format(dateLayout), e.Message)
}

// Tracker keeps at most Retention daily entries, one per calendar date.
// It is not safe for concurrent use; callers own the synchronization.
type Tracker struct {
	entries map[string]Entry
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]Entry)}
}

// Record stores the mood for the calendar date of at, replacing any entry
// already recorded that day, and evicts the oldest date once the store grows
// past Retention.
func (t *Tracker) Record(l Label, at time.Time) string {
	day := truncateToDate(at)
	key := day.Format(dateLayout)
	msg := l.Message()
	t.entries[key] = Entry{Date: day, Label: l, Message: msg}

	if len(t.entries) > Retention {
		oldest := lo.MinBy(lo.Values(t.entries), func(a, b Entry) bool {
			return a.Date.Before(b.Date)
		})
		delete(t.entries, oldest.Date.Format(dateLayout))
	}
	return msg
}

// Entries returns the stored entries, newest first.
func (t *Tracker) Entries() []Entry {
	out := lo.Values(t.entries)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Trend renders the entries newest first as "date: message".
func (t *Tracker) Trend() []string {
	return lo.Map(t.Entries(), func(e Entry, _ int) string {
		return e.String()
	})
}

func (t *Tracker) Len() int {
	return len(t.entries)
}

func truncateToDate(at time.Time) time.Time {
	y, m, d := at.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, at.Location())
}
