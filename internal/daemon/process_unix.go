//go:build !windows

package daemon

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

const pollInterval = 100 * time.Millisecond

// isProcessRunning uses signal 0, which checks existence without
// delivering anything.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return signalShowsAlive(process.Signal(syscall.Signal(0)))
}

// signalShowsAlive interprets the result of signal 0. EPERM means the
// process exists but belongs to another user.
func signalShowsAlive(err error) bool {
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Terminate sends SIGTERM to pid and waits up to timeout for it to exit,
// then sends SIGKILL. It reports whether the kill was forced.
func Terminate(pid int, timeout time.Duration) (forced bool, err error) {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("process not found: %w", err)
	}
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return false, fmt.Errorf("scheduler not running (PID %d): %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return false, fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !signalShowsAlive(process.Signal(syscall.Signal(0))) {
			return false, nil
		}
		time.Sleep(pollInterval)
	}

	if err := process.Signal(syscall.SIGKILL); err != nil {
		return true, fmt.Errorf("failed to send SIGKILL: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	return true, nil
}
