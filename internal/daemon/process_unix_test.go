//go:build !windows

package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"
)

func TestSignalShowsAlive(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"signalled", nil, true},
		{"other user", syscall.EPERM, true},
		{"wrapped other user", fmt.Errorf("signal: %w", syscall.EPERM), true},
		{"no such process", syscall.ESRCH, false},
		{"already reaped", os.ErrProcessDone, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := signalShowsAlive(tt.err); got != tt.want {
				t.Errorf("signalShowsAlive(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// pid 1 always exists and, unless the tests run as root, belongs to
// another user, so signal 0 fails with EPERM.
func TestIsProcessRunning_ForeignOwner(t *testing.T) {
	if !IsProcessRunning(1) {
		t.Fatal("expected pid 1 to be reported as running")
	}
}

func TestAcquirePidFile_KeepsForeignOwnedInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.pid")
	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := AcquirePidFile(path, os.Getpid())
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != strconv.Itoa(1) {
		t.Errorf("pid file overwritten: %q", data)
	}
}
