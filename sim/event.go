package sim

// event is a callback scheduled at an absolute virtual time.
type event struct {
	time  float64 // Simulation time at which fn runs
	seq   uint64  // Submission order, breaks timestamp ties FIFO
	fn    func()
	index int // Position in the heap, -1 once popped or cancelled
}

// EventQueue implements heap.Interface ordered by (time, seq).
type EventQueue []*event

// Len implements heap.Interface
func (eq EventQueue) Len() int { return len(eq) }

// Less implements heap.Interface
// Order by: timestamp → submission sequence
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].time != eq[j].time {
		return eq[i].time < eq[j].time
	}
	return eq[i].seq < eq[j].seq
}

// Swap implements heap.Interface
func (eq EventQueue) Swap(i, j int) {
	eq[i], eq[j] = eq[j], eq[i]
	eq[i].index = i
	eq[j].index = j
}

// Push implements heap.Interface
func (eq *EventQueue) Push(x any) {
	ev := x.(*event)
	ev.index = len(*eq)
	*eq = append(*eq, ev)
}

// Pop implements heap.Interface
func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*eq = old[:n-1]
	return ev
}
