package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesim/linesim/sim/random"
	"github.com/linesim/linesim/sim/trace"
)

func TestResource_GrantsUpToCapacity(t *testing.T) {
	// GIVEN a capacity-2 resource
	s := NewScheduler(nil)
	r := NewResource(s, "M", 2, nil)
	var granted []*Lease

	// WHEN three requests arrive together
	for _, name := range []string{"a", "b", "c"} {
		r.Acquire(name, func(l *Lease) { granted = append(granted, l) })
	}
	s.Run(0)

	// THEN two are granted and one waits
	require.Len(t, granted, 2)
	assert.Equal(t, 2, r.Holders())
	assert.Equal(t, 1, r.Waiting())

	// WHEN the first lease is released at t=4
	s.Schedule(4, func() { r.Release(granted[0]) })
	s.Run(10)

	// THEN the waiter is granted then, without exceeding capacity
	require.Len(t, granted, 3)
	assert.Equal(t, "c", granted[2].Requester)
	assert.Equal(t, 4.0, granted[2].GrantedAt)
	assert.Equal(t, 2, r.Holders())
	assert.Equal(t, 2, r.PeakHolders())
}

func TestResource_DoubleReleasePanics(t *testing.T) {
	s := NewScheduler(nil)
	r := NewResource(s, "M", 1, nil)
	var lease *Lease
	r.Acquire("a", func(l *Lease) { lease = l })
	s.Run(0)
	require.NotNil(t, lease)

	r.Release(lease)
	assert.Equal(t, 0, r.Holders())
	assert.Panics(t, func() { r.Release(lease) })
}

func TestResource_ForeignLeasePanics(t *testing.T) {
	s := NewScheduler(nil)
	a := NewResource(s, "A", 1, nil)
	b := NewResource(s, "B", 1, nil)
	var lease *Lease
	a.Acquire("x", func(l *Lease) { lease = l })
	s.Run(0)
	assert.Panics(t, func() { b.Release(lease) })
}

func TestResource_UseIsFIFOAndBounded(t *testing.T) {
	// GIVEN a capacity-1 machine with processing time 5 and a recorder
	log := trace.NewLog()
	s := NewScheduler(log)
	r := NewResource(s, "M", 1, random.NewConstantSampler(5))

	// WHEN four items request it at t=0,1,2,3
	var finished []string
	var finishedAt []float64
	for i, it := range items(4) {
		it := it
		s.Schedule(float64(i), func() {
			r.Use(it, func() {
				finished = append(finished, it.Name)
				finishedAt = append(finishedAt, s.Now())
			})
		})
	}
	s.Run(math.Inf(1))

	// THEN they are served in request order, back to back
	assert.Equal(t, []string{"Load_1", "Load_2", "Load_3", "Load_4"}, finished)
	assert.Equal(t, []float64{5, 10, 15, 20}, finishedAt)
	assert.Equal(t, 1, r.PeakHolders())

	// THEN the event log never shows more holders than capacity
	holders := 0
	for _, rec := range log.ForEntity("M") {
		switch rec.Kind {
		case trace.KindStartProcessing:
			holders++
		case trace.KindFinishProcessing:
			holders--
		}
		assert.LessOrEqual(t, holders, 1)
		assert.GreaterOrEqual(t, holders, 0)
	}
}

func TestNewResource_NonPositiveCapacityPanics(t *testing.T) {
	s := NewScheduler(nil)
	assert.Panics(t, func() { NewResource(s, "M", 0, nil) })
}
