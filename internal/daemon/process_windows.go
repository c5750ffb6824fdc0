//go:build windows

package daemon

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// isProcessRunning opens the process with SYNCHRONIZE access, the minimal
// right that proves it exists.
func isProcessRunning(pid int) bool {
	handle, err := windows.OpenProcess(windows.SYNCHRONIZE, false, uint32(pid))
	if err != nil {
		return false
	}
	windows.CloseHandle(handle)
	return true
}

// Terminate interrupts pid and waits up to timeout for it to exit before
// killing it. It reports whether the kill was forced.
func Terminate(pid int, timeout time.Duration) (forced bool, err error) {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("process not found: %w", err)
	}
	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return true, fmt.Errorf("failed to stop scheduler: %w", err)
		}
		return true, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := process.Wait()
		done <- err
	}()

	select {
	case <-done:
		return false, nil
	case <-time.After(timeout):
		if err := process.Kill(); err != nil {
			return true, fmt.Errorf("failed to kill scheduler: %w", err)
		}
		return true, nil
	}
}
