// Defines the WorkItem that models a single load travelling through the line.

package sim

import (
	"fmt"
	"math"
)

// WorkItem is a unit of material. It is owned by the executor driving it.
type WorkItem struct {
	Name        string  // Load_<seq>
	Seq         int     // 1-based arrival sequence
	CreatedAt   float64 // Arrival time
	CompletedAt float64 // NaN until the route finishes
	Step        int     // Index of the current flow step
}

// NewWorkItem creates the seq-th load at time now.
func NewWorkItem(seq int, now float64) *WorkItem {
	return &WorkItem{
		Name:        fmt.Sprintf("Load_%d", seq),
		Seq:         seq,
		CreatedAt:   now,
		CompletedAt: math.NaN(),
	}
}

// Completed reports whether the item finished its route.
func (w *WorkItem) Completed() bool {
	return !math.IsNaN(w.CompletedAt)
}

// LeadTime returns completion minus creation, or NaN while in flight.
func (w *WorkItem) LeadTime() float64 {
	return w.CompletedAt - w.CreatedAt
}

func (w *WorkItem) String() string {
	return w.Name
}
