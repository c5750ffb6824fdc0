//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs for Windows Event Log entries.
const (
	// EventIDInfo is used for informational messages (scheduler started, schedule fired).
	EventIDInfo uint32 = 1

	// EventIDWarning is used for warning messages.
	EventIDWarning uint32 = 2

	// EventIDError is used for error messages (emit failures, unreadable store).
	EventIDError uint32 = 3
)

// EventLogWriter is the subset of *eventlog.Log used by EventLogger.
type EventLogWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// EventLogger writes log messages to the Windows Event Log. Debug messages
// are not forwarded.
type EventLogger struct {
	log EventLogWriter
}

// NewEventLogger opens the Event Log source sourceName. The source must
// already be registered (eventlog.InstallAsEventCreate); callers should fall
// back to console-only logging when this fails.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &EventLogger{log: elog}, nil
}

// newEventLoggerWithWriter is used by tests to inject a fake writer.
func newEventLoggerWithWriter(w EventLogWriter) *EventLogger {
	return &EventLogger{log: w}
}

// Debug is dropped; the Event Log is for operator-visible events only.
func (e *EventLogger) Debug(format string, args ...interface{}) {}

// Info logs an informational message with EventIDInfo.
func (e *EventLogger) Info(format string, args ...interface{}) {
	// Error intentionally ignored - the scheduler must continue even if logging fails.
	_ = e.log.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

// Warning logs a warning message with EventIDWarning.
func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.log.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

// Error logs an error message with EventIDError.
func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.log.Error(EventIDError, fmt.Sprintf(format, args...))
}

// Close releases the Event Log handle.
func (e *EventLogger) Close() error {
	if e.log != nil {
		err := e.log.Close()
		e.log = nil
		return err
	}
	return nil
}

var _ Logger = (*EventLogger)(nil)
