// Tracks completed-item statistics for a single run.

package sim

// Accumulator collects completion counts and lead times.
// Written only by executors; read after the scheduler stops.
type Accumulator struct {
	Processed int       // Number of items that finished their route
	LeadTimes []float64 // Completion - creation, in completion order
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{LeadTimes: make([]float64, 0)}
}

// Observe records a finished item.
func (a *Accumulator) Observe(item *WorkItem) {
	a.Processed++
	a.LeadTimes = append(a.LeadTimes, item.LeadTime())
}
