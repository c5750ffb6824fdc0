package scheduler

import (
	"container/heap"
	"time"

	"github.com/tinyclaw/clawsched/internal/cron"
)

// pending is the next occurrence of one schedule during an Upcoming walk.
type pending struct {
	label string
	agent string
	expr  *cron.Expr
	at    time.Time
}

// occurrenceHeap implements container/heap.Interface for pending,
// earliest first; ties are broken by label so output is stable.
type occurrenceHeap []pending

func (h occurrenceHeap) Len() int { return len(h) }
func (h occurrenceHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].label < h[j].label
	}
	return h[i].at.Before(h[j].at)
}
func (h occurrenceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *occurrenceHeap) Push(x any) {
	*h = append(*h, x.(pending))
}

func (h *occurrenceHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func heapPush(h *occurrenceHeap, p pending) {
	heap.Push(h, p)
}

// heapPop removes and returns the earliest occurrence. Panics if the heap
// is empty.
func heapPop(h *occurrenceHeap) pending {
	return heap.Pop(h).(pending)
}
