package mood

import (
	"errors"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, time.March, n, 9, 30, 0, 0, time.UTC)
}

func TestRecord_EvictsEarliestDate(t *testing.T) {
	tr := NewTracker()
	for i := 1; i <= 7; i++ {
		tr.Record(Good, day(i))
	}
	if tr.Len() != 7 {
		t.Fatalf("len=%d, want 7", tr.Len())
	}

	tr.Record(Bad, day(8))
	if tr.Len() != 7 {
		t.Fatalf("len after 8th=%d, want 7", tr.Len())
	}
	trend := tr.Trend()
	if trend[0] != "2024-03-08: Feeling bad" {
		t.Fatalf("newest=%q", trend[0])
	}
	if trend[6] != "2024-03-02: Feeling good" {
		t.Fatalf("oldest=%q", trend[6])
	}
	for _, line := range trend {
		if line[:10] == "2024-03-01" {
			t.Fatalf("day 1 should have been evicted: %v", trend)
		}
	}
}

func TestRecord_EvictsMinimumDateNotInsertionOrder(t *testing.T) {
	tr := NewTracker()
	for _, n := range []int{10, 3, 12, 5, 7, 9, 11} {
		tr.Record(Neutral, day(n))
	}
	tr.Record(Neutral, day(20))
	for _, e := range tr.Entries() {
		if e.Date.Day() == 3 {
			t.Fatalf("earliest date 3 still present")
		}
	}
}

func TestRecord_SameDayOverwrites(t *testing.T) {
	tr := NewTracker()
	tr.Record(VeryBad, day(1))
	msg := tr.Record(VeryGood, day(1).Add(5*time.Hour))
	if tr.Len() != 1 {
		t.Fatalf("len=%d, want 1", tr.Len())
	}
	if msg != "Feeling very good" {
		t.Fatalf("msg=%q", msg)
	}
	if got := tr.Trend(); len(got) != 1 || got[0] != "2024-03-01: Feeling very good" {
		t.Fatalf("trend=%v", got)
	}
}

func TestTrend_EmptyAndRepeatable(t *testing.T) {
	tr := NewTracker()
	if len(tr.Trend()) != 0 {
		t.Fatalf("expected empty trend")
	}
	tr.Record(Good, day(2))
	tr.Record(Bad, day(1))
	a, b := tr.Trend(), tr.Trend()
	if len(a) != 2 || a[0] != b[0] || a[1] != b[1] {
		t.Fatalf("trend not stable: %v vs %v", a, b)
	}
}

func TestParseLabel(t *testing.T) {
	cases := map[string]Label{
		"very_bad":  VeryBad,
		"Very Bad":  VeryBad,
		"bad":       Bad,
		"Neutral":   Neutral,
		" good ":    Good,
		"Very Good": VeryGood,
	}
	for in, want := range cases {
		got, err := ParseLabel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLabel(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLabel("ecstatic"); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
}
