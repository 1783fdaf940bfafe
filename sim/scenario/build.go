package scenario

import (
	"github.com/linesim/linesim/sim"
	"github.com/linesim/linesim/sim/random"
	"github.com/linesim/linesim/sim/trace"
	"github.com/linesim/linesim/sim/workload"
)

// line is the entity graph for one run.
type line struct {
	stations  map[string]sim.Station
	route     []sim.Station
	resources []trace.Capacity // route order, then remaining by name
}

// build constructs every configured entity on sched. cfg must be valid.
func build(cfg *Config, sched *sim.Scheduler, rng *random.PartitionedRNG) (*line, error) {
	l := &line{stations: make(map[string]sim.Station, len(cfg.Entities))}
	for _, name := range cfg.EntityNames() {
		st, err := buildEntity(name, cfg.Entities[name], sched, rng)
		if err != nil {
			return nil, err
		}
		l.stations[name] = st
	}

	l.route = make([]sim.Station, 0, len(cfg.ProcessFlow))
	for _, step := range cfg.ProcessFlow {
		l.route = append(l.route, l.stations[step.EntityName])
	}

	seen := make(map[string]bool)
	addResource := func(name string) {
		if r, ok := l.stations[name].(*sim.Resource); ok && !seen[name] {
			seen[name] = true
			l.resources = append(l.resources, trace.Capacity{Name: name, Capacity: r.Capacity()})
		}
	}
	for _, step := range cfg.ProcessFlow {
		addResource(step.EntityName)
	}
	for _, name := range cfg.EntityNames() {
		addResource(name)
	}
	return l, nil
}

func buildEntity(name string, spec EntitySpec, sched *sim.Scheduler, rng *random.PartitionedRNG) (sim.Station, error) {
	p := spec.Params
	switch spec.Type {
	case Queue:
		capacity := sim.Unbounded
		if p.Capacity != nil {
			capacity = *p.Capacity
		}
		return sim.NewQueue(sched, name, capacity), nil
	case Resource:
		capacity := DefaultResourceCapacity
		if p.Capacity != nil {
			capacity = *p.Capacity
		}
		processing, err := processingSampler(name, p, rng)
		if err != nil {
			return nil, err
		}
		return sim.NewResource(sched, name, capacity, processing), nil
	case Conveyor:
		length, velocity := DefaultConveyorLength, DefaultConveyorVelocity
		if p.Length != nil {
			length = *p.Length
		}
		if p.Velocity != nil {
			velocity = *p.Velocity
		}
		return sim.NewConveyor(sched, name, length, velocity), nil
	}
	return nil, configErr(name, "type", "unknown entity type %q", spec.Type)
}

func processingSampler(name string, p Params, rng *random.PartitionedRNG) (random.Sampler, error) {
	if p.ProcessingTimeDistribution != nil {
		s, err := random.NewSampler(*p.ProcessingTimeDistribution, rng.ForSubsystem(random.SubsystemEntity(name)))
		if err != nil {
			return nil, configErr(name, "processing_time_distribution", "%v", err)
		}
		return s, nil
	}
	d := DefaultProcessingTime
	if p.ProcessingTime != nil {
		d = *p.ProcessingTime
	}
	return random.NewConstantSampler(d), nil
}

// arrivals picks the source's arrival process.
func arrivals(src Source, rng *random.PartitionedRNG) (workload.ArrivalSampler, error) {
	switch {
	case src.Schedule != "":
		c, err := workload.NewCronSchedule(src.Schedule)
		if err != nil {
			return nil, configErr("source", "schedule", "%v", err)
		}
		return c, nil
	case src.IntervalDistribution != nil:
		s, err := workload.NewStochastic(*src.IntervalDistribution, rng.ForSubsystem(random.SubsystemArrivals))
		if err != nil {
			return nil, configErr("source", "interval_distribution", "%v", err)
		}
		return s, nil
	default:
		return &workload.FixedInterval{Interval: src.Interval}, nil
	}
}

// startSource schedules number_of_loads releases, each spawning an executor run.
func startSource(sched *sim.Scheduler, n int, arr workload.ArrivalSampler, exec *sim.Executor) {
	if n <= 0 {
		return
	}
	released := 0
	var release func()
	release = func() {
		released++
		exec.Start(sim.NewWorkItem(released, sched.Now()))
		if released < n {
			sched.Schedule(arr.Next(sched.Now()), release)
		}
	}
	sched.Schedule(arr.First(), release)
}
