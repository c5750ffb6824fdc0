package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T, retention time.Duration) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"), retention)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger_RecordAndRecent(t *testing.T) {
	l := openTest(t, 0)
	ctx := context.Background()
	base := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Label: "a", Agent: "bot", Bucket: "2025-01-01 09:00", MessageID: "a_1_1", FiredAt: base},
		{Label: "b", Agent: "ops", Bucket: "2025-01-01 09:01", MessageID: "b_2_1", FiredAt: base.Add(time.Minute)},
		{Label: "a", Agent: "bot", Bucket: "2025-01-01 10:00", FiredAt: base.Add(time.Hour), Err: "disk full"},
	}
	for _, e := range entries {
		if err := l.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := l.Recent(ctx, Filter{})
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Bucket != "2025-01-01 10:00" || got[0].OK() || got[0].Err != "disk full" {
		t.Errorf("unexpected newest entry: %+v", got[0])
	}
	if got[0].MessageID != "" {
		t.Errorf("MessageID = %q, want empty", got[0].MessageID)
	}
	if !got[2].FiredAt.Equal(base) || !got[2].OK() || got[2].MessageID != "a_1_1" {
		t.Errorf("unexpected oldest entry: %+v", got[2])
	}

	onlyA, err := l.Recent(ctx, Filter{Label: "a", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyA) != 1 || onlyA[0].Label != "a" || onlyA[0].Bucket != "2025-01-01 10:00" {
		t.Errorf("unexpected filtered result: %+v", onlyA)
	}
}

func TestLedger_DefaultLimit(t *testing.T) {
	l := openTest(t, 0)
	ctx := context.Background()
	for i := 0; i < DefaultLimit+5; i++ {
		if err := l.Record(ctx, Entry{Label: fmt.Sprintf("s%d", i), Agent: "bot", Bucket: "b"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := l.Recent(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != DefaultLimit {
		t.Errorf("expected %d entries, got %d", DefaultLimit, len(got))
	}
}

func TestLedger_Prune(t *testing.T) {
	l := openTest(t, 0)
	ctx := context.Background()
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := l.Record(ctx, Entry{Label: "x", Agent: "bot", Bucket: "b", FiredAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := l.Prune(ctx, base.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
	left, _ := l.Recent(ctx, Filter{})
	if len(left) != 3 {
		t.Errorf("expected 3 left, got %d", len(left))
	}
}

func TestLedger_RetentionSweep(t *testing.T) {
	l := openTest(t, time.Hour)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	if err := l.Record(ctx, Entry{Label: "old", Agent: "bot", Bucket: "b", FiredAt: now.Add(-48 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < pruneEvery; i++ {
		if err := l.Record(ctx, Entry{Label: "new", Agent: "bot", Bucket: "b"}); err != nil {
			t.Fatal(err)
		}
	}
	old, err := l.Recent(ctx, Filter{Label: "old"})
	if err != nil {
		t.Fatal(err)
	}
	if len(old) != 0 {
		t.Errorf("expected old entry to be pruned, got %+v", old)
	}
}

func TestLedger_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Record(context.Background(), Entry{Label: "keep", Agent: "bot", Bucket: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	l, err = Open(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	got, err := l.Recent(context.Background(), Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Label != "keep" {
		t.Errorf("unexpected entries after reopen: %+v", got)
	}
}

func TestLedger_Closed(t *testing.T) {
	l := openTest(t, 0)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(context.Background(), Entry{Label: "x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Record after Close: %v", err)
	}
	if _, err := l.Recent(context.Background(), Filter{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Recent after Close: %v", err)
	}
	var nilLedger *Ledger
	if err := nilLedger.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(" ", 0); err == nil {
		t.Error("expected error for empty path")
	}
}
