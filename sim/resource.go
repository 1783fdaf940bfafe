// Implements the Resource, a capacity-limited server such as a machine or worker.
// Requests are granted first-come first-served with no priority or preemption.

package sim

import (
	"fmt"

	"github.com/linesim/linesim/sim/random"
	"github.com/linesim/linesim/sim/trace"
)

// Lease is one granted unit of a resource's capacity.
type Lease struct {
	Requester string
	GrantedAt float64
	resource  *Resource
	released  bool
}

type waiter struct {
	requester string
	granted   func(*Lease)
}

// Resource admits at most capacity concurrent holders.
type Resource struct {
	name       string
	capacity   int
	processing random.Sampler
	sched      *Scheduler
	holders    int
	waiters    []waiter
	peak       int
}

// NewResource creates a resource. capacity must be positive.
func NewResource(sched *Scheduler, name string, capacity int, processing random.Sampler) *Resource {
	if capacity <= 0 {
		panic(fmt.Sprintf("sim: resource %q capacity must be positive, got %d", name, capacity))
	}
	if processing == nil {
		processing = random.NewConstantSampler(0)
	}
	return &Resource{
		name:       name,
		capacity:   capacity,
		processing: processing,
		sched:      sched,
		waiters:    make([]waiter, 0),
	}
}

func (r *Resource) Name() string { return r.name }

// Capacity returns the concurrent-holder limit.
func (r *Resource) Capacity() int { return r.capacity }

// Holders returns the number of outstanding leases.
func (r *Resource) Holders() int { return r.holders }

// PeakHolders returns the largest Holders observed.
func (r *Resource) PeakHolders() int { return r.peak }

// Waiting returns the number of queued requests.
func (r *Resource) Waiting() int { return len(r.waiters) }

// Acquire requests one unit. granted is scheduled immediately if a unit is
// free, otherwise after earlier waiters have been served.
func (r *Resource) Acquire(requester string, granted func(*Lease)) {
	r.sched.Emit(r.name, trace.KindRequest, requester, fmt.Sprintf("holders=%d/%d", r.holders, r.capacity))
	if r.holders < r.capacity {
		r.holders++
		if r.holders > r.peak {
			r.peak = r.holders
		}
		r.grant(requester, granted)
		return
	}
	r.waiters = append(r.waiters, waiter{requester: requester, granted: granted})
}

// Release returns a unit, passing it straight to the longest waiter if any.
// Releasing a lease twice panics.
func (r *Resource) Release(l *Lease) {
	if l == nil || l.resource != r {
		panic(fmt.Sprintf("sim: release of foreign lease on %q", r.name))
	}
	if l.released {
		panic(fmt.Sprintf("sim: double release of %q by %s", r.name, l.Requester))
	}
	l.released = true
	if len(r.waiters) > 0 {
		w := r.waiters[0]
		r.waiters = r.waiters[1:]
		r.grant(w.requester, w.granted)
		return
	}
	r.holders--
}

func (r *Resource) grant(requester string, granted func(*Lease)) {
	lease := &Lease{Requester: requester, resource: r}
	r.sched.Schedule(0, func() {
		lease.GrantedAt = r.sched.Now()
		granted(lease)
	})
}

// Use acquires a unit for item, holds it for a sampled processing time,
// releases it, then calls done.
func (r *Resource) Use(item *WorkItem, done func()) {
	r.Acquire(item.Name, func(l *Lease) {
		d := r.processing.Sample()
		r.sched.Emit(r.name, trace.KindStartProcessing, item.Name, fmt.Sprintf("duration=%g", d))
		r.sched.Schedule(d, func() {
			r.sched.Emit(r.name, trace.KindFinishProcessing, item.Name, "")
			r.Release(l)
			done()
		})
	})
}
