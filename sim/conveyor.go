package sim

import (
	"fmt"

	"github.com/linesim/linesim/sim/trace"
)

// Conveyor is a fixed-length transport section moving at constant velocity.
// Occupancy is not bounded by length; any number of items may ride at once.
type Conveyor struct {
	name      string
	length    float64
	velocity  float64
	sched     *Scheduler
	occupants []*WorkItem
	peak      int
}

// NewConveyor creates a conveyor. length must be non-negative and velocity positive.
func NewConveyor(sched *Scheduler, name string, length, velocity float64) *Conveyor {
	if length < 0 || !(velocity > 0) {
		panic(fmt.Sprintf("sim: conveyor %q needs length >= 0 and velocity > 0, got %g, %g", name, length, velocity))
	}
	return &Conveyor{
		name:      name,
		length:    length,
		velocity:  velocity,
		sched:     sched,
		occupants: make([]*WorkItem, 0),
	}
}

func (c *Conveyor) Name() string { return c.name }

// TravelTime is length / velocity.
func (c *Conveyor) TravelTime() float64 { return c.length / c.velocity }

// Occupants returns the items on the conveyor in entry order.
func (c *Conveyor) Occupants() []*WorkItem {
	out := make([]*WorkItem, len(c.occupants))
	copy(out, c.occupants)
	return out
}

// PeakOccupancy returns the largest number of simultaneous riders.
func (c *Conveyor) PeakOccupancy() int { return c.peak }

// Travel puts item on the conveyor and calls done when it leaves the far end.
// Items leave in the order they entered.
func (c *Conveyor) Travel(item *WorkItem, done func()) {
	c.occupants = append(c.occupants, item)
	if len(c.occupants) > c.peak {
		c.peak = len(c.occupants)
	}
	c.sched.Emit(c.name, trace.KindConveyorEnter, item.Name, fmt.Sprintf("occupants=%d", len(c.occupants)))
	c.sched.Schedule(c.TravelTime(), func() {
		head := c.occupants[0]
		if head != item {
			panic(fmt.Sprintf("sim: conveyor %q overtaking: %s leaving ahead of %s", c.name, item.Name, head.Name))
		}
		c.occupants[0] = nil
		c.occupants = c.occupants[1:]
		c.sched.Emit(c.name, trace.KindConveyorExit, item.Name, "")
		done()
	})
}
