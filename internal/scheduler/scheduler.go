package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/tinyclaw/clawsched/internal/cron"
	"github.com/tinyclaw/clawsched/internal/history"
	"github.com/tinyclaw/clawsched/internal/store"
	"github.com/tinyclaw/clawsched/pkg/logger"
)

// Loop fires schedules. It is not safe for concurrent use: Run and Tick
// must be called from one goroutine.
type Loop struct {
	cfg   Config
	src   Source
	emit  Emitter
	rec   Recorder
	log   logger.Logger
	now   func() time.Time
	wake  <-chan struct{}
	fired map[FireKey]struct{}
	// invalid remembers the cron already reported for a label so a broken
	// schedule is logged once rather than every minute.
	invalid map[string]string
}

// New builds a Loop. It panics if Source or Emitter is missing.
func New(cfg Config, deps Dependencies) *Loop {
	if deps.Source == nil || deps.Emitter == nil {
		panic("scheduler: Source and Emitter are required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Loop{
		cfg:     cfg,
		src:     deps.Source,
		emit:    deps.Emitter,
		rec:     deps.Recorder,
		log:     deps.Logger,
		now:     deps.Now,
		wake:    deps.Wake,
		fired:   make(map[FireKey]struct{}),
		invalid: make(map[string]string),
	}
}

// Run ticks until ctx is cancelled and returns nil on a clean shutdown.
// Cancellation interrupts the wait between ticks immediately; a tick that
// is already running completes first.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("Scheduler started")
	defer l.log.Info("Scheduler stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}
		l.tick(ctx, l.now())

		timer := time.NewTimer(l.sleepFor(l.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-l.wake:
			l.log.Debug("Schedule store changed; ticking early")
		case <-timer.C:
		}
		timer.Stop()
	}
}

// sleepFor returns the time until just after the next minute boundary,
// capped at the poll interval.
func (l *Loop) sleepFor(now time.Time) time.Duration {
	next := now.Truncate(time.Minute).Add(time.Minute)
	d := next.Sub(now) + 50*time.Millisecond
	if d > l.cfg.PollInterval {
		d = l.cfg.PollInterval
	}
	return d
}

// Tick performs one pass for the instant now.
func (l *Loop) Tick(now time.Time) TickResult {
	return l.tick(context.Background(), now)
}

func (l *Loop) tick(ctx context.Context, now time.Time) TickResult {
	now = now.In(l.cfg.Location)
	res := TickResult{Bucket: BucketOf(now)}
	defer l.prune(res.Bucket)

	schedules, err := l.src.Load()
	if err != nil {
		res.LoadErr = err
		l.log.Error("Failed to load schedules: %v", err)
		return res
	}
	res.Loaded = len(schedules)
	l.log.Debug("Tick %s: %d schedules", res.Bucket, res.Loaded)

	for _, sc := range store.Sorted(schedules) {
		key := FireKey{Label: sc.Label, Bucket: res.Bucket}
		if _, done := l.fired[key]; done {
			continue
		}
		expr, err := cron.Parse(sc.Cron)
		if err != nil {
			res.Invalid++
			if l.invalid[sc.Label] != sc.Cron {
				l.invalid[sc.Label] = sc.Cron
				l.log.Warning("Skipping schedule '%s': %v", sc.Label, err)
			}
			continue
		}
		delete(l.invalid, sc.Label)
		if !expr.Match(now) {
			continue
		}
		l.fired[key] = struct{}{}
		res.Fired = append(res.Fired, l.fire(ctx, sc, res.Bucket, now))
	}
	return res
}

func (l *Loop) fire(ctx context.Context, sc store.Schedule, bucket string, now time.Time) Fire {
	f := Fire{Label: sc.Label, Agent: sc.Agent}
	f.MessageID, f.Err = l.emit.Emit(sc.Label, sc.Agent, sc.Message, sc.Channel, sc.Sender)
	if f.Err != nil {
		l.log.Error("Failed to fire schedule '%s': %v", sc.Label, f.Err)
	} else {
		l.log.Info("Fired schedule '%s' -> @%s (msg: %s)", sc.Label, sc.Agent, f.MessageID)
	}
	if l.rec != nil {
		e := history.Entry{
			Label:     sc.Label,
			Agent:     sc.Agent,
			Bucket:    bucket,
			MessageID: f.MessageID,
			FiredAt:   now,
		}
		if f.Err != nil {
			e.Err = f.Err.Error()
		}
		if err := l.rec.Record(ctx, e); err != nil && !errors.Is(err, context.Canceled) {
			l.log.Warning("Failed to record fire of '%s': %v", sc.Label, err)
		}
	}
	return f
}

// prune drops fired keys from buckets other than the current one.
func (l *Loop) prune(bucket string) {
	for k := range l.fired {
		if k.Bucket != bucket {
			delete(l.fired, k)
		}
	}
}

// Fired reports whether key is in the fired set.
func (l *Loop) Fired(key FireKey) bool {
	_, ok := l.fired[key]
	return ok
}
