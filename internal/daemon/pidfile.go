package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrPidFileNotFound is returned by ReadPidFile when no daemon has written
// a pid file.
var ErrPidFileNotFound = errors.New("pid file not found")

// AnotherInstanceError reports a live process already holding the pid file.
type AnotherInstanceError struct {
	Pid  int
	Path string
}

func (e *AnotherInstanceError) Error() string {
	return fmt.Sprintf("scheduler already running (PID %d, %s)", e.Pid, e.Path)
}

// Is makes errors.Is(err, ErrAlreadyRunning) hold.
func (e *AnotherInstanceError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

// AcquirePidFile writes pid to path. A pid file left behind by a process
// that is no longer running is replaced; one held by a live process other
// than pid yields *AnotherInstanceError.
func AcquirePidFile(path string, pid int) error {
	if old, err := ReadPidFile(path); err == nil && old != pid && isProcessRunning(old) {
		return &AnotherInstanceError{Pid: old, Path: path}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pid file: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("pid file: %w", err)
	}
	return nil
}

// ReadPidFile reads and returns the PID from the pid file.
func ReadPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrPidFileNotFound
		}
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// RemovePidFile removes the pid file. A missing file is not an error.
func RemovePidFile(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsProcessRunning reports whether a process with pid exists.
func IsProcessRunning(pid int) bool {
	return isProcessRunning(pid)
}
