package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchStore_WakesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedules.json")
	wake := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchStore(ctx, path, wake, nil) }()

	// The watcher is set up asynchronously, so keep writing until it
	// notices.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	woke := false
	for !woke {
		select {
		case <-wake:
			woke = true
		case <-tick.C:
			if err := os.WriteFile(path, []byte(`{"schedules":{}}`), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no wake after writing the store")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchStore returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WatchStore did not stop")
	}
}

func TestWatchStore_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	wake := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = WatchStore(ctx, filepath.Join(dir, "schedules.json"), wake, nil) }()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-wake:
		t.Fatal("woke for an unrelated file")
	case <-time.After(600 * time.Millisecond):
	}
}
