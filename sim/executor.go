package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/linesim/linesim/sim/trace"
)

// Entity names used for records that do not belong to a configured entity.
const (
	SourceName = "Source"
	SinkName   = "Sink"
)

// Executor drives items through a fixed route, one step at a time.
// Step i+1 starts only after step i has called back.
type Executor struct {
	sched *Scheduler
	route []Station
	acc   *Accumulator
}

// NewExecutor binds a route to a scheduler and accumulator.
func NewExecutor(sched *Scheduler, route []Station, acc *Accumulator) *Executor {
	return &Executor{sched: sched, route: route, acc: acc}
}

// Start records the arrival of item and begins its first step.
func (e *Executor) Start(item *WorkItem) {
	e.sched.Emit(SourceName, trace.KindArrive, item.Name, fmt.Sprintf("route=%d steps", len(e.route)))
	e.step(item, 0)
}

func (e *Executor) step(item *WorkItem, i int) {
	if i == len(e.route) {
		e.complete(item)
		return
	}
	item.Step = i
	e.route[i].visit(item, func(next *WorkItem) {
		e.step(next, i+1)
	})
}

func (e *Executor) complete(item *WorkItem) {
	item.Step = len(e.route)
	item.CompletedAt = e.sched.Now()
	e.acc.Observe(item)
	e.sched.Emit(SinkName, trace.KindComplete, item.Name, fmt.Sprintf("lead_time=%g", item.LeadTime()))
	logrus.Debugf("[t=%.3f] %s completed, lead time %g", item.CompletedAt, item.Name, item.LeadTime())
}
