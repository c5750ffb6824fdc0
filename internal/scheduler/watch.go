package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tinyclaw/clawsched/pkg/logger"
)

const (
	watchDebounce      = 250 * time.Millisecond
	restartBackoffBase = 250 * time.Millisecond
	restartBackoffMax  = 5 * time.Second
)

// WatchStore watches the directory holding the schedule document at path
// and sends on wake, without blocking, shortly after the document changes.
// wake should have a buffer of one. A broken watcher is recreated with
// exponential backoff. WatchStore returns when ctx is cancelled.
func WatchStore(ctx context.Context, path string, wake chan<- struct{}, log logger.Logger) error {
	if log == nil {
		log = logger.NewNopLogger()
	}
	dir := filepath.Dir(path)
	file := filepath.Base(path)
	backoff := restartBackoffBase

	wait := func() bool {
		d := backoff
		if backoff < restartBackoffMax {
			backoff *= 2
			if backoff > restartBackoffMax {
				backoff = restartBackoffMax
			}
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(d):
			return true
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Warning("Store watch init failed: %v", err)
			if !wait() {
				return nil
			}
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err == nil {
			err = w.Add(dir)
		}
		if err != nil {
			_ = w.Close()
			log.Warning("Store watch on %s failed: %v", dir, err)
			if !wait() {
				return nil
			}
			continue
		}
		backoff = restartBackoffBase
		log.Debug("Watching %s for changes", path)

		if done := watchLoop(ctx, w, file, wake, log); done {
			_ = w.Close()
			return nil
		}
		_ = w.Close()
		log.Warning("Store watcher stopped; restarting")
		if !wait() {
			return nil
		}
	}
}

// watchLoop forwards debounced events until ctx is done (true) or the
// watcher breaks (false).
func watchLoop(ctx context.Context, w *fsnotify.Watcher, file string, wake chan<- struct{}, log logger.Logger) bool {
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return true
		case ev, ok := <-w.Events:
			if !ok {
				return false
			}
			// Atomic saves surface as a Create or Rename of the target name.
			if !strings.EqualFold(filepath.Base(ev.Name), file) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return false
			}
			if err == nil {
				continue
			}
			log.Warning("Store watch error: %v", err)
			if strings.Contains(strings.ToLower(err.Error()), "overflow") {
				debounce = time.After(watchDebounce)
			}
		case <-debounce:
			debounce = nil
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}
}
