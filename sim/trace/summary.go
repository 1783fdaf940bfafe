package trace

import "math"

// WIPPoint is the number of items in the line at Time.
type WIPPoint struct {
	Time float64 `json:"time" yaml:"time"`
	WIP  int     `json:"wip" yaml:"wip"`
}

// Utilization is the fraction of a resource's capacity-time that was held.
type Utilization struct {
	Name        string  `json:"name" yaml:"name"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

// Capacity identifies a resource and its concurrent-holder limit.
type Capacity struct {
	Name     string
	Capacity int
}

// SummaryConfig controls time-bucketed aggregation.
type SummaryConfig struct {
	Horizon   float64
	Bucket    float64    // sampling step for WIP; <= 0 picks Horizon/DefaultBuckets, at least Horizon/MaxBuckets
	Resources []Capacity // reported in this order
}

// DefaultBuckets is the number of WIP intervals when no bucket width is given.
const DefaultBuckets = 20

// MaxBuckets bounds the WIP series; narrower buckets are widened to Horizon/MaxBuckets.
const MaxBuckets = 1_000_000

// Summary holds the time series derived from an event stream.
type Summary struct {
	WIP         []WIPPoint
	Utilization []Utilization
}

// Summarize folds time-ordered records into WIP samples and per-resource
// utilization. WIP counts ARRIVE minus COMPLETE; a resource is held between
// START_PROCESSING and FINISH_PROCESSING, or until the horizon.
// Safe for nil or empty records (returns zero-valued series).
func Summarize(records []EventRecord, cfg SummaryConfig) *Summary {
	summary := &Summary{
		WIP:         make([]WIPPoint, 0),
		Utilization: make([]Utilization, 0, len(cfg.Resources)),
	}
	horizon := cfg.Horizon
	if horizon < 0 || math.IsNaN(horizon) || math.IsInf(horizon, 0) {
		horizon = 0
	}

	bucket := cfg.Bucket
	if bucket <= 0 || math.IsNaN(bucket) {
		bucket = horizon / DefaultBuckets
	}
	if bucket < horizon/MaxBuckets {
		bucket = horizon / MaxBuckets
	}

	// WIP sampled at k*bucket, counting every record at or before that time.
	wip, idx := 0, 0
	for k := 0; ; k++ {
		t := float64(k) * bucket
		if t > horizon || (bucket == 0 && k > 0) {
			break
		}
		for idx < len(records) && records[idx].Time <= t {
			switch records[idx].Kind {
			case KindArrive:
				wip++
			case KindComplete:
				wip--
			}
			idx++
		}
		summary.WIP = append(summary.WIP, WIPPoint{Time: t, WIP: wip})
	}

	// Held capacity-time per resource.
	holders := make(map[string]int, len(cfg.Resources))
	last := make(map[string]float64, len(cfg.Resources))
	area := make(map[string]float64, len(cfg.Resources))
	for _, r := range cfg.Resources {
		holders[r.Name] = 0
	}
	advance := func(name string, t float64) {
		t = math.Min(t, horizon)
		if t > last[name] {
			area[name] += float64(holders[name]) * (t - last[name])
			last[name] = t
		}
	}
	for _, rec := range records {
		if _, ok := holders[rec.Entity]; !ok {
			continue
		}
		switch rec.Kind {
		case KindStartProcessing:
			advance(rec.Entity, rec.Time)
			holders[rec.Entity]++
		case KindFinishProcessing:
			advance(rec.Entity, rec.Time)
			holders[rec.Entity]--
		}
	}
	for _, r := range cfg.Resources {
		advance(r.Name, horizon)
		u := 0.0
		if horizon > 0 && r.Capacity > 0 {
			u = area[r.Name] / (float64(r.Capacity) * horizon)
		}
		summary.Utilization = append(summary.Utilization, Utilization{Name: r.Name, Utilization: u})
	}

	return summary
}
