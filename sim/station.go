package sim

// Station is a step on an item's route. The set of implementations is closed:
// *Queue, *Resource and *Conveyor.
type Station interface {
	// Name returns the entity name used in event records.
	Name() string
	// visit performs the station's operation on item and calls next with the
	// item that continues downstream.
	visit(item *WorkItem, next func(*WorkItem))
}

// visit puts the item then takes the queue head.
func (q *Queue) visit(item *WorkItem, next func(*WorkItem)) {
	q.Put(item, func() {
		q.Get(next)
	})
}

// visit holds one unit of capacity for a processing time.
func (r *Resource) visit(item *WorkItem, next func(*WorkItem)) {
	r.Use(item, func() { next(item) })
}

// visit rides the conveyor end to end.
func (c *Conveyor) visit(item *WorkItem, next func(*WorkItem)) {
	c.Travel(item, func() { next(item) })
}
