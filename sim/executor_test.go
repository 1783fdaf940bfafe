package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesim/linesim/sim/random"
	"github.com/linesim/linesim/sim/trace"
)

// referenceLine builds EntryQueue(50) -> MachineA(1, 5) -> MainConveyor(20/2).
func referenceLine(s *Scheduler) []Station {
	return []Station{
		NewQueue(s, "EntryQueue", 50),
		NewResource(s, "MachineA", 1, random.NewConstantSampler(5)),
		NewConveyor(s, "MainConveyor", 20, 2),
	}
}

func TestExecutor_SingleItemLeadTime(t *testing.T) {
	// GIVEN one item on the reference route
	s := NewScheduler(nil)
	acc := NewAccumulator()
	e := NewExecutor(s, referenceLine(s), acc)
	item := NewWorkItem(1, 0)

	// WHEN it is started and the scheduler drains
	e.Start(item)
	s.Run(math.Inf(1))

	// THEN lead time = 0 (queue) + 5 (machine) + 10 (conveyor)
	require.True(t, item.Completed())
	assert.Equal(t, 15.0, item.LeadTime())
	assert.Equal(t, 1, acc.Processed)
	assert.Equal(t, []float64{15}, acc.LeadTimes)
	assert.Equal(t, 3, item.Step)
}

func TestExecutor_ArrivalsEveryThreeQueueBehindMachine(t *testing.T) {
	// GIVEN ten items arriving every 3 time units
	s := NewScheduler(nil)
	acc := NewAccumulator()
	e := NewExecutor(s, referenceLine(s), acc)
	for k := 0; k < 10; k++ {
		k := k
		s.Schedule(float64(3*k), func() { e.Start(NewWorkItem(k+1, s.Now())) })
	}

	// WHEN run to 100
	s.Run(100)

	// THEN item k starts at 5k on the machine, so its lead time is 2k+15
	require.Equal(t, 10, acc.Processed)
	for k, lt := range acc.LeadTimes {
		assert.Equal(t, float64(2*k+15), lt, "item %d", k+1)
	}
}

func TestExecutor_StepsAreSerial(t *testing.T) {
	// GIVEN a recorded run of one item
	log := trace.NewLog()
	s := NewScheduler(log)
	e := NewExecutor(s, referenceLine(s), NewAccumulator())
	e.Start(NewWorkItem(1, 0))
	s.Run(math.Inf(1))

	// THEN each kind appears in route order and times never decrease
	var kinds []trace.Kind
	last := 0.0
	for _, r := range log.Records {
		kinds = append(kinds, r.Kind)
		assert.GreaterOrEqual(t, r.Time, last)
		last = r.Time
	}
	assert.Equal(t, []trace.Kind{
		trace.KindArrive,
		trace.KindQueuePut,
		trace.KindQueueGet,
		trace.KindRequest,
		trace.KindStartProcessing,
		trace.KindFinishProcessing,
		trace.KindConveyorEnter,
		trace.KindConveyorExit,
		trace.KindComplete,
	}, kinds)
}

func TestExecutor_EmptyRouteCompletesImmediately(t *testing.T) {
	s := NewScheduler(nil)
	acc := NewAccumulator()
	e := NewExecutor(s, nil, acc)
	s.Schedule(7, func() { e.Start(NewWorkItem(1, s.Now())) })
	s.Run(10)

	assert.Equal(t, 1, acc.Processed)
	assert.Equal(t, []float64{0}, acc.LeadTimes)
}

func TestExecutor_HorizonDropsInFlightItems(t *testing.T) {
	// GIVEN two items that need 15 units each on a single machine route
	s := NewScheduler(nil)
	acc := NewAccumulator()
	e := NewExecutor(s, referenceLine(s), acc)
	e.Start(NewWorkItem(1, 0))
	e.Start(NewWorkItem(2, 0))

	// WHEN the horizon cuts the second one off
	s.Run(16)

	// THEN only the first is counted
	assert.Equal(t, 1, acc.Processed)
	assert.Equal(t, []float64{15}, acc.LeadTimes)
}
