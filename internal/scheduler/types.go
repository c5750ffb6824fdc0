package scheduler

import (
	"context"
	"time"

	"github.com/tinyclaw/clawsched/internal/history"
	"github.com/tinyclaw/clawsched/internal/store"
	"github.com/tinyclaw/clawsched/pkg/logger"
)

// BucketLayout formats the calendar minute that identifies a fire.
const BucketLayout = "2006-01-02 15:04"

// DefaultPollInterval is the longest the loop sleeps between ticks.
const DefaultPollInterval = 60 * time.Second

// FireKey identifies one fire of one schedule. It is never persisted.
type FireKey struct {
	Label  string
	Bucket string
}

// BucketOf returns the minute bucket of t in t's location.
func BucketOf(t time.Time) string {
	return t.Format(BucketLayout)
}

// Source supplies the current schedules. It is called on every tick.
type Source interface {
	Load() (map[string]store.Schedule, error)
}

// Emitter delivers a fired schedule to the queue and returns the message
// ID it was written under.
type Emitter interface {
	Emit(label, agent, message, channel, sender string) (string, error)
}

// Recorder keeps a history of fires. Failures are logged, never fatal.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Config tunes a Loop.
type Config struct {
	// PollInterval caps the sleep between ticks. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration
	// Location is the time zone cron expressions are matched in. Nil means
	// time.Local.
	Location *time.Location
}

// Dependencies are the collaborators of a Loop. Source and Emitter are
// required.
type Dependencies struct {
	Source   Source
	Emitter  Emitter
	Recorder Recorder
	Logger   logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Wake triggers an immediate tick, typically from WatchStore.
	Wake <-chan struct{}
}

// Fire is one schedule fired during a tick.
type Fire struct {
	Label     string
	Agent     string
	MessageID string
	// Err is the emit failure, nil on success.
	Err error
}

// TickResult summarises one tick.
type TickResult struct {
	Bucket string
	// Loaded is the number of schedules in the store.
	Loaded int
	Fired  []Fire
	// Invalid counts schedules skipped because their cron did not parse.
	Invalid int
	// LoadErr is set when the store could not be read; nothing fired.
	LoadErr error
}
