// Package scheduler runs the schedule loop. A single goroutine wakes at
// every minute boundary (capped by the poll interval so that clock steps,
// DST transitions and system sleep are noticed), reloads the schedule
// store, and emits one queue event for each schedule whose cron expression
// matches the current minute.
//
// Each (label, minute) pair fires at most once per process. The fired set
// lives in memory only; a restarted scheduler does not catch up on minutes
// it missed.
package scheduler
