// Package daemon hosts the scheduler loop as a long running process. It
// owns the pid file, reports readiness and liveness to systemd when the
// process runs under it, and bounds the time spent in shutdown cleanup.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tinyclaw/clawsched/pkg/logger"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// Task is the work hosted by the runner. Run must return once ctx is done.
type Task interface {
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error { return f(ctx) }

// Config holds the configuration for the daemon runner.
type Config struct {
	// PidFile is written on start and removed on exit. Empty disables it.
	PidFile string

	// ShutdownTimeout is the maximum time to wait for ShutdownFunc.
	// A zero value means no timeout.
	ShutdownTimeout time.Duration
}

// Dependencies holds the external dependencies for the daemon runner.
// This enables dependency injection for testing.
type Dependencies struct {
	// Notifier reports state to the service manager.
	// If nil, the systemd notify socket is used when present.
	Notifier Notifier

	// ShutdownFunc is called once the task has returned, to release
	// resources such as the history database.
	ShutdownFunc func() error

	// Logger defaults to a NopLogger.
	Logger logger.Logger

	// Getpid defaults to os.Getpid.
	Getpid func() int
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config  *Config
	deps    *Dependencies
	running bool
	mu      sync.Mutex
	cancel  context.CancelFunc
}

// New creates a new daemon runner with the given configuration and dependencies.
// Nil arguments select defaults.
func New(config *Config, deps *Dependencies) *Runner {
	return &Runner{
		config: applyConfigDefaults(config),
		deps:   applyDependencyDefaults(deps),
	}
}

func applyConfigDefaults(config *Config) *Config {
	if config == nil {
		return &Config{}
	}
	return config
}

func applyDependencyDefaults(deps *Dependencies) *Dependencies {
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.Notifier == nil {
		deps.Notifier = SystemdNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.Getpid == nil {
		deps.Getpid = os.Getpid
	}
	return deps
}

// Start writes the pid file, runs task until it returns and then cleans
// up. It returns nil on a clean shutdown, the task's error otherwise.
// Startup failures (a live instance holding the pid file, an unwritable
// pid file) are returned before the task starts.
func (r *Runner) Start(ctx context.Context, task Task) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	if r.config.PidFile != "" {
		if err := AcquirePidFile(r.config.PidFile, r.deps.Getpid()); err != nil {
			r.mu.Unlock()
			return err
		}
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.running = true
	r.mu.Unlock()

	log := r.deps.Logger
	if _, err := r.deps.Notifier.Notify(StateReady); err != nil {
		log.Warning("sd_notify READY failed: %v", err)
	}
	stopWatchdog := r.startWatchdog(ctx)

	taskErr := task.Run(ctx)
	if errors.Is(taskErr, context.Canceled) {
		taskErr = nil
	}

	stopWatchdog()
	if _, err := r.deps.Notifier.Notify(StateStopping); err != nil {
		log.Warning("sd_notify STOPPING failed: %v", err)
	}
	cleanupErr := r.cleanupOnStop()
	if taskErr != nil {
		return taskErr
	}
	return cleanupErr
}

// startWatchdog pings the service manager at half the watchdog interval
// when one is configured. The returned function stops it.
func (r *Runner) startWatchdog(ctx context.Context) func() {
	interval, err := r.deps.Notifier.WatchdogInterval()
	if err != nil {
		r.deps.Logger.Warning("watchdog: %v", err)
	}
	if err != nil || interval <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = r.deps.Notifier.Notify(StateWatchdog)
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// cleanupOnStop runs the shutdown function and removes the pid file.
func (r *Runner) cleanupOnStop() error {
	err := r.executeShutdownFunc()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	if r.config.PidFile != "" {
		if rmErr := RemovePidFile(r.config.PidFile); rmErr != nil {
			r.deps.Logger.Warning("remove pid file: %v", rmErr)
		}
	}
	return err
}

// executeShutdownFunc runs the shutdown function with timeout if configured.
func (r *Runner) executeShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	if r.config.ShutdownTimeout > 0 {
		return executeWithTimeout(r.deps.ShutdownFunc, r.config.ShutdownTimeout)
	}
	return r.deps.ShutdownFunc()
}

// executeWithTimeout runs fn, giving up after timeout.
func executeWithTimeout(fn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}
