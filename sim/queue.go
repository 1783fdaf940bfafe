// Implements the Queue, a bounded FIFO buffer between line steps.
// Puts block while the buffer is full; gets block while it is empty.

package sim

import (
	"fmt"
	"math"

	"github.com/linesim/linesim/sim/trace"
)

// Unbounded is the capacity of a queue with no limit.
const Unbounded = math.MaxInt

type pendingPut struct {
	item *WorkItem
	done func()
}

// Queue holds items in arrival order with blocked putters and getters
// each served first-come first-served.
type Queue struct {
	name     string
	capacity int
	sched    *Scheduler
	items    []*WorkItem
	putters  []pendingPut
	getters  []func(*WorkItem)
	peak     int
}

// NewQueue creates a queue. capacity must be positive; use Unbounded for no limit.
func NewQueue(sched *Scheduler, name string, capacity int) *Queue {
	if capacity <= 0 {
		panic(fmt.Sprintf("sim: queue %q capacity must be positive, got %d", name, capacity))
	}
	return &Queue{
		name:     name,
		capacity: capacity,
		sched:    sched,
		items:    make([]*WorkItem, 0),
	}
}

func (q *Queue) Name() string { return q.name }

// Capacity returns the configured limit.
func (q *Queue) Capacity() int { return q.capacity }

// Len returns the number of buffered items.
func (q *Queue) Len() int { return len(q.items) }

// PeakLen returns the largest Len observed.
func (q *Queue) PeakLen() int { return q.peak }

// BlockedPutters returns the number of items waiting for space.
func (q *Queue) BlockedPutters() int { return len(q.putters) }

// Put stores item and schedules done once it is in the buffer (or handed to a waiting getter).
func (q *Queue) Put(item *WorkItem, done func()) {
	if len(q.items) >= q.capacity {
		q.putters = append(q.putters, pendingPut{item: item, done: done})
		q.sched.Emit(q.name, trace.KindQueuePut, item.Name, "blocked: queue full")
		return
	}
	q.sched.Emit(q.name, trace.KindQueuePut, item.Name, fmt.Sprintf("len=%d", len(q.items)+1))
	q.admit(item)
	q.sched.Schedule(0, done)
}

// Get schedules done with the head item, waiting for one if the buffer is empty.
func (q *Queue) Get(done func(*WorkItem)) {
	if len(q.items) == 0 {
		q.getters = append(q.getters, done)
		return
	}
	item := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	q.sched.Emit(q.name, trace.KindQueueGet, item.Name, fmt.Sprintf("len=%d", len(q.items)))
	q.sched.Schedule(0, func() { done(item) })

	// A freed slot admits the oldest blocked putter.
	if len(q.putters) > 0 && len(q.items) < q.capacity {
		p := q.putters[0]
		q.putters = q.putters[1:]
		q.sched.Emit(q.name, trace.KindQueuePut, p.item.Name, "unblocked")
		q.admit(p.item)
		q.sched.Schedule(0, p.done)
	}
}

// admit appends item, or hands it straight to the oldest waiting getter.
func (q *Queue) admit(item *WorkItem) {
	if len(q.getters) > 0 {
		get := q.getters[0]
		q.getters = q.getters[1:]
		q.sched.Emit(q.name, trace.KindQueueGet, item.Name, "handoff")
		q.sched.Schedule(0, func() { get(item) })
		return
	}
	q.items = append(q.items, item)
	if len(q.items) > q.peak {
		q.peak = len(q.items)
	}
}
