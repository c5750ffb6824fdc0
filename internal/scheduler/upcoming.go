package scheduler

import (
	"time"

	"github.com/tinyclaw/clawsched/internal/cron"
	"github.com/tinyclaw/clawsched/internal/store"
)

// Occurrence is a future fire of a schedule.
type Occurrence struct {
	Label string
	Agent string
	At    time.Time
}

// Upcoming merges the future fires of all schedules and returns the first
// n strictly after from, in from's location. Schedules with an invalid
// cron, or with no occurrence within a year, are left out.
func Upcoming(schedules map[string]store.Schedule, from time.Time, n int) []Occurrence {
	if n <= 0 {
		return nil
	}
	h := &occurrenceHeap{}
	for _, sc := range schedules {
		expr, err := cron.Parse(sc.Cron)
		if err != nil {
			continue
		}
		if at, ok := expr.Next(from); ok {
			heapPush(h, pending{label: sc.Label, agent: sc.Agent, expr: expr, at: at})
		}
	}

	out := make([]Occurrence, 0, n)
	for h.Len() > 0 && len(out) < n {
		p := heapPop(h)
		out = append(out, Occurrence{Label: p.label, Agent: p.agent, At: p.at})
		if at, ok := p.expr.Next(p.at); ok {
			p.at = at
			heapPush(h, p)
		}
	}
	return out
}

// HasOccurrenceWithinYear reports whether expr fires at least once in the
// year after from. It returns false for an invalid expression.
func HasOccurrenceWithinYear(expr string, from time.Time) bool {
	e, err := cron.Parse(expr)
	if err != nil {
		return false
	}
	_, ok := e.Next(from)
	return ok
}
