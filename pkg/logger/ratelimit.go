package logger

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Logger and drops Warning and Error messages beyond a
// token bucket. The number of dropped messages is reported with the next
// message that gets through. Debug and Info pass through untouched.
type RateLimited struct {
	Logger
	limiter *rate.Limiter
	dropped atomic.Int64
}

// NewRateLimited allows burst messages at once and one more every interval.
func NewRateLimited(l Logger, every time.Duration, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		Logger:  l,
		limiter: rate.NewLimiter(rate.Every(every), burst),
	}
}

// Warning logs if the limiter allows it.
func (r *RateLimited) Warning(format string, args ...interface{}) {
	if r.allow() {
		r.Logger.Warning(format, args...)
	}
}

// Error logs if the limiter allows it.
func (r *RateLimited) Error(format string, args ...interface{}) {
	if r.allow() {
		r.Logger.Error(format, args...)
	}
}

// Dropped returns the number of messages suppressed since the last one
// that was let through.
func (r *RateLimited) Dropped() int64 {
	return r.dropped.Load()
}

func (r *RateLimited) allow() bool {
	if !r.limiter.Allow() {
		r.dropped.Add(1)
		return false
	}
	if n := r.dropped.Swap(0); n > 0 {
		r.Logger.Warning("suppressed %d log messages", n)
	}
	return true
}

var _ Logger = (*RateLimited)(nil)
