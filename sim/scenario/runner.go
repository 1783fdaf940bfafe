package scenario

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/linesim/linesim/sim"
	"github.com/linesim/linesim/sim/random"
	"github.com/linesim/linesim/sim/stats"
	"github.com/linesim/linesim/sim/trace"
)

// DefaultSeed seeds runs whose source and options give none.
const DefaultSeed int64 = 42

type options struct {
	seed       *int64
	recorder   trace.Recorder
	bucket     float64
	confidence float64
}

// Option customizes a Run.
type Option func(*options)

// WithSeed overrides source.seed.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithRecorder streams every EventRecord to r and enables the WIP and
// utilization series.
func WithRecorder(r trace.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithBucket sets the WIP sampling step; <= 0 uses trace.DefaultBuckets intervals.
func WithBucket(width float64) Option {
	return func(o *options) { o.bucket = width }
}

// WithConfidence sets the level of the lead-time confidence interval.
func WithConfidence(level float64) Option {
	return func(o *options) { o.confidence = level }
}

// tee keeps a copy of every record for summarizing while forwarding it.
type tee struct {
	log  *trace.Log
	next trace.Recorder
}

func (t *tee) Record(r trace.EventRecord) {
	t.log.Record(r)
	t.next.Record(r)
}

// Seed resolves the seed a run of cfg would use.
func Seed(cfg *Config, opts ...Option) int64 {
	o := resolve(opts)
	return o.seedFor(cfg)
}

func resolve(opts []Option) *options {
	o := &options{confidence: stats.DefaultConfidence}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) seedFor(cfg *Config) int64 {
	switch {
	case o.seed != nil:
		return *o.seed
	case cfg.Source.Seed != nil:
		return *cfg.Source.Seed
	}
	return DefaultSeed
}

// Run validates cfg, builds its line, releases its loads and advances the
// clock to source.simulation_runtime. Items still in flight at the horizon
// are not counted. Run keeps no state between calls.
func Run(cfg Config, opts ...Option) (*Result, error) {
	o := resolve(opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !(o.confidence > 0 && o.confidence < 1) {
		return nil, fmt.Errorf("confidence level must be in (0, 1), got %g", o.confidence)
	}
	seed := o.seedFor(&cfg)

	var rec trace.Recorder
	var log *trace.Log
	if o.recorder != nil {
		log = trace.NewLog()
		rec = &tee{log: log, next: o.recorder}
	}

	sched := sim.NewScheduler(rec)
	rng := random.NewPartitionedRNG(random.NewSimulationKey(seed))
	l, err := build(&cfg, sched, rng)
	if err != nil {
		return nil, err
	}
	arr, err := arrivals(cfg.Source, rng)
	if err != nil {
		return nil, err
	}
	acc := sim.NewAccumulator()
	startSource(sched, cfg.Source.NumberOfLoads, arr, sim.NewExecutor(sched, l.route, acc))

	logrus.Infof("Starting run: %d entities, %d steps, %d loads, horizon=%g, seed=%d",
		len(cfg.Entities), len(l.route), cfg.Source.NumberOfLoads, cfg.Source.SimulationRuntime, seed)
	startTime := time.Now()
	events := sched.Run(cfg.Source.SimulationRuntime)

	res := &Result{
		TotalProcessed:      acc.Processed,
		WIPOverTime:         make([]trace.WIPPoint, 0),
		ResourceUtilization: make([]trace.Utilization, 0),
		LeadTimes:           acc.LeadTimes,
		Seed:                seed,
		Events:              events,
	}
	if acc.Processed > 0 {
		a, err := stats.New(acc.LeadTimes)
		if err != nil {
			return nil, fmt.Errorf("lead time statistics: %w", err)
		}
		summary, err := a.Summary(o.confidence)
		if err != nil {
			return nil, fmt.Errorf("lead time statistics: %w", err)
		}
		res.AverageLeadTime = stats.Round(a.Mean(), 2)
		res.LeadTimeSummary = &summary
	}
	if log != nil {
		s := trace.Summarize(log.Records, trace.SummaryConfig{
			Horizon:   cfg.Source.SimulationRuntime,
			Bucket:    o.bucket,
			Resources: l.resources,
		})
		res.WIPOverTime = s.WIP
		res.ResourceUtilization = s.Utilization
	}

	logrus.Infof("Run complete: %d/%d processed, average lead time %.2f, %d events in %s",
		res.TotalProcessed, cfg.Source.NumberOfLoads, res.AverageLeadTime, events, time.Since(startTime))
	return res, nil
}
