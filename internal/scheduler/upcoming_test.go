package scheduler

import (
	"testing"
	"time"

	"github.com/tinyclaw/clawsched/internal/store"
)

func TestUpcoming_MergesSchedules(t *testing.T) {
	schedules := map[string]store.Schedule{
		"hourly":  sched("hourly", "0 * * * *"),
		"quarter": sched("quarter", "*/15 * * * *"),
		"broken":  sched("broken", "not a cron"),
		"never":   sched("never", "0 0 30 2 *"),
	}
	from := utc(9, 50, 0)
	got := Upcoming(schedules, from, 5)

	want := []struct {
		label string
		at    time.Time
	}{
		{"hourly", utc(10, 0, 0)},
		{"quarter", utc(10, 0, 0)},
		{"quarter", utc(10, 15, 0)},
		{"quarter", utc(10, 30, 0)},
		{"quarter", utc(10, 45, 0)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Label != w.label || !got[i].At.Equal(w.at) {
			t.Errorf("occurrence %d = %s at %s, want %s at %s", i, got[i].Label, got[i].At.Format("15:04"), w.label, w.at.Format("15:04"))
		}
	}
}

func TestUpcoming_Empty(t *testing.T) {
	if got := Upcoming(nil, utc(0, 0, 0), 3); len(got) != 0 {
		t.Errorf("expected nothing, got %+v", got)
	}
	if got := Upcoming(map[string]store.Schedule{"a": sched("a", "* * * * *")}, utc(0, 0, 0), 0); got != nil {
		t.Errorf("expected nil for n=0, got %+v", got)
	}
}

func TestHasOccurrenceWithinYear(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	if !HasOccurrenceWithinYear("0 2 * * *", now) {
		t.Error("expected daily cron to have occurrence in next year")
	}
	if HasOccurrenceWithinYear("bad-cron", now) {
		t.Error("invalid cron should return false")
	}
	// Day-of-month and day-of-week must both match: April 31st never exists.
	for _, expr := range []string{"0 0 31 4 1", "0 0 30 2 1", "0 0 30 2 *"} {
		if HasOccurrenceWithinYear(expr, now) {
			t.Errorf("%q should have no occurrence", expr)
		}
	}
	// Friday the 13th happens within any year.
	if !HasOccurrenceWithinYear("0 12 13 * 5", now) {
		t.Error("expected Friday the 13th within a year")
	}
}
