// Implements the Scheduler, which owns the virtual clock and the pending event set.
// Entities and executors receive the scheduler explicitly; there is no global environment.

package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/linesim/linesim/sim/trace"
)

// Token identifies a scheduled event for cancellation.
type Token struct {
	ev *event
}

// Scheduler is a single-timeline discrete-event kernel.
//
// Thread-safety: NOT thread-safe. All entity state is mutated from event
// callbacks on the goroutine calling Run.
type Scheduler struct {
	clock    float64
	queue    EventQueue
	nextSeq  uint64
	executed int
	recorder trace.Recorder
}

// NewScheduler returns a scheduler at time 0. A nil recorder discards records.
func NewScheduler(recorder trace.Recorder) *Scheduler {
	if recorder == nil {
		recorder = trace.Nop{}
	}
	return &Scheduler{
		queue:    make(EventQueue, 0),
		recorder: recorder,
	}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 {
	return s.clock
}

// Pending returns the number of events not yet executed.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Executed returns the number of events run so far.
func (s *Scheduler) Executed() int {
	return s.executed
}

// Schedule runs fn at Now()+delay. Events at equal times run in submission order.
// Panics on a negative or NaN delay.
func (s *Scheduler) Schedule(delay float64, fn func()) Token {
	if delay < 0 || math.IsNaN(delay) {
		panic(fmt.Sprintf("sim: invalid delay %v at t=%v", delay, s.clock))
	}
	if fn == nil {
		panic("sim: Schedule with nil callback")
	}
	ev := &event{time: s.clock + delay, seq: s.nextSeq, fn: fn}
	s.nextSeq++
	heap.Push(&s.queue, ev)
	return Token{ev: ev}
}

// Cancel removes a pending event. It reports false if the event already
// fired, was cancelled, or the token is zero.
func (s *Scheduler) Cancel(tok Token) bool {
	ev := tok.ev
	if ev == nil || ev.index < 0 || ev.index >= len(s.queue) || s.queue[ev.index] != ev {
		return false
	}
	heap.Remove(&s.queue, ev.index)
	return true
}

// Run executes events in (time, seq) order until the queue is empty or the
// next event lies beyond until. Events exactly at until are executed. The
// clock is then advanced to until when it is finite. Returns the number of
// events executed by this call.
func (s *Scheduler) Run(until float64) int {
	n := 0
	for len(s.queue) > 0 {
		if s.queue[0].time > until {
			break
		}
		// get the next event to be simulated
		ev := heap.Pop(&s.queue).(*event)
		if ev.time < s.clock {
			panic(fmt.Sprintf("sim: clock moving backwards from %v to %v", s.clock, ev.time))
		}
		// advance the clock
		s.clock = ev.time
		ev.fn()
		n++
		s.executed++
	}
	if !math.IsInf(until, 1) && until > s.clock {
		s.clock = until
	}
	logrus.Debugf("[t=%.3f] scheduler stopped after %d events, %d pending", s.clock, n, len(s.queue))
	return n
}

// Emit records an entity operation at the current time.
func (s *Scheduler) Emit(entity string, kind trace.Kind, item, message string) {
	logrus.Debugf("[t=%.3f] %s %s %s %s", s.clock, entity, kind, item, message)
	s.recorder.Record(trace.EventRecord{
		Time:    s.clock,
		Entity:  entity,
		Kind:    kind,
		Item:    item,
		Message: message,
	})
}
