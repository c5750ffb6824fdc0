//go:build windows

package logger

import (
	"errors"
	"testing"
)

type fakeEventLog struct {
	events []uint32
	msgs   []string
	fail   bool
	closed bool
}

func (f *fakeEventLog) write(eid uint32, msg string) error {
	f.events = append(f.events, eid)
	f.msgs = append(f.msgs, msg)
	if f.fail {
		return errors.New("event log full")
	}
	return nil
}

func (f *fakeEventLog) Info(eid uint32, msg string) error    { return f.write(eid, msg) }
func (f *fakeEventLog) Warning(eid uint32, msg string) error { return f.write(eid, msg) }
func (f *fakeEventLog) Error(eid uint32, msg string) error   { return f.write(eid, msg) }
func (f *fakeEventLog) Close() error                         { f.closed = true; return nil }

func TestEventLogger_EventIDs(t *testing.T) {
	fake := &fakeEventLog{}
	l := newEventLoggerWithWriter(fake)

	l.Debug("dropped")
	l.Info("fired %s", "hourly")
	l.Warning("warn")
	l.Error("err")

	want := []uint32{EventIDInfo, EventIDWarning, EventIDError}
	if len(fake.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(fake.events))
	}
	for i, id := range want {
		if fake.events[i] != id {
			t.Errorf("event %d: id %d, want %d", i, fake.events[i], id)
		}
	}
	if fake.msgs[0] != "fired hourly" {
		t.Errorf("message = %q", fake.msgs[0])
	}
}

func TestEventLogger_FailuresSwallowed(t *testing.T) {
	l := newEventLoggerWithWriter(&fakeEventLog{fail: true})
	l.Info("x")
	l.Error("y")
}

func TestEventLogger_CloseTwice(t *testing.T) {
	fake := &fakeEventLog{}
	l := newEventLoggerWithWriter(fake)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fake.closed {
		t.Error("writer not closed")
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
