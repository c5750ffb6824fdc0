// Package queue writes fire events into the incoming directory of the
// tinyclaw file queue. Each event is one JSON file named after its message
// id; files are written under a hidden temporary name and renamed into place
// so the queue processor never claims a half-written message.
package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/tinyclaw/clawsched/internal/fsutil"
)

// DefaultSourceTag prefixes the senderId of every emitted event.
const DefaultSourceTag = "tinyclaw-schedule"

// FileMode is the permission of emitted message files.
const FileMode os.FileMode = 0o644

// Event is the message consumed by the queue processor.
type Event struct {
	Channel   string `json:"channel"`
	Sender    string `json:"sender"`
	SenderID  string `json:"senderId"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	MessageID string `json:"messageId"`
}

// Emitter writes events into a queue directory.
type Emitter struct {
	fs        afero.Fs
	dir       string
	sourceTag string
	now       func() time.Time
	pid       int
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithSourceTag overrides DefaultSourceTag.
func WithSourceTag(tag string) Option {
	return func(e *Emitter) {
		if tag != "" {
			e.sourceTag = tag
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) { e.now = now }
}

// WithPid overrides os.Getpid, which is part of every message id.
func WithPid(pid int) Option {
	return func(e *Emitter) { e.pid = pid }
}

// NewEmitter returns an Emitter writing into dir on fs.
func NewEmitter(fs afero.Fs, dir string, opts ...Option) *Emitter {
	e := &Emitter{
		fs:        fs,
		dir:       dir,
		sourceTag: DefaultSourceTag,
		now:       time.Now,
		pid:       os.Getpid(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the incoming directory.
func (e *Emitter) Dir() string {
	return e.dir
}

// NewEvent builds the event for a fire of label at now.
func (e *Emitter) NewEvent(label, agent, message, channel, sender string, now time.Time) Event {
	return Event{
		Channel:   channel,
		Sender:    sender,
		SenderID:  e.sourceTag + ":" + label,
		Message:   fmt.Sprintf("@%s %s", agent, message),
		Timestamp: now.Unix() * 1000,
		MessageID: fmt.Sprintf("%s_%d_%d", label, now.Unix(), e.pid),
	}
}

// Emit writes one event for label and returns its message id. Failures are
// returned as *EmitError.
func (e *Emitter) Emit(label, agent, message, channel, sender string) (string, error) {
	ev := e.NewEvent(label, agent, message, channel, sender, e.now())
	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return "", &EmitError{MessageID: ev.MessageID, Err: err}
	}
	path := filepath.Join(e.dir, ev.MessageID+".json")
	if err := fsutil.WriteFileAtomic(e.fs, path, data, FileMode); err != nil {
		return "", &EmitError{MessageID: ev.MessageID, Err: err}
	}
	return ev.MessageID, nil
}

// EmitError reports a message that could not be written to the queue.
type EmitError struct {
	MessageID string
	Err       error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emit %s: %v", e.MessageID, e.Err)
}

func (e *EmitError) Unwrap() error {
	return e.Err
}
