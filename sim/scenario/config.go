// Package scenario turns a line configuration into an entity graph, runs it
// to its horizon and reports throughput, lead-time and utilization results.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/linesim/linesim/sim/random"
	"github.com/linesim/linesim/sim/workload"
)

// EntityType is the closed set of line entity kinds.
type EntityType string

const (
	Queue    EntityType = "QUEUE"
	Resource EntityType = "RESOURCE"
	Conveyor EntityType = "CONVEYOR"
)

// EntityTypes lists every valid EntityType.
var EntityTypes = []EntityType{Queue, Resource, Conveyor}

// Valid reports whether t is one of EntityTypes.
func (t EntityType) Valid() bool {
	switch t {
	case Queue, Resource, Conveyor:
		return true
	}
	return false
}

// Defaults applied to omitted entity parameters.
const (
	DefaultResourceCapacity = 1
	DefaultProcessingTime   = 1.0
	DefaultConveyorLength   = 10.0
	DefaultConveyorVelocity = 1.0
)

// Params holds the type-specific parameters of an entity.
// Nil fields take their defaults.
type Params struct {
	Capacity                   *int             `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	ProcessingTime             *float64         `yaml:"processing_time,omitempty" json:"processing_time,omitempty"`
	ProcessingTimeDistribution *random.DistSpec `yaml:"processing_time_distribution,omitempty" json:"processing_time_distribution,omitempty"`
	Length                     *float64         `yaml:"length,omitempty" json:"length,omitempty"`
	Velocity                   *float64         `yaml:"velocity,omitempty" json:"velocity,omitempty"`
}

// EntitySpec declares one named entity.
type EntitySpec struct {
	Type   EntityType `yaml:"type" json:"type"`
	Params Params     `yaml:"params,omitempty" json:"params,omitempty"`
}

// FlowStep references an entity on the route.
type FlowStep struct {
	Type       EntityType `yaml:"type" json:"type"`
	EntityName string     `yaml:"entity_name" json:"entity_name"`
}

// Source controls arrivals and the horizon.
type Source struct {
	NumberOfLoads     int     `yaml:"number_of_loads" json:"number_of_loads"`
	Interval          float64 `yaml:"interval" json:"interval"`
	SimulationRuntime float64 `yaml:"simulation_runtime" json:"simulation_runtime"`

	// Optional: stochastic inter-arrival times replace Interval.
	IntervalDistribution *random.DistSpec `yaml:"interval_distribution,omitempty" json:"interval_distribution,omitempty"`
	// Optional: five-field cron calendar in virtual minutes; replaces Interval.
	Schedule string `yaml:"schedule,omitempty" json:"schedule,omitempty"`
	// Optional: seed for every stochastic input of the run.
	Seed *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Config is a complete line scenario.
type Config struct {
	Entities    map[string]EntitySpec `yaml:"entities" json:"entities"`
	ProcessFlow []FlowStep            `yaml:"process_flow" json:"process_flow"`
	Source      Source                `yaml:"source" json:"source"`
}

// ErrConfiguration matches every configuration failure via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigError describes one invalid configuration field.
type ConfigError struct {
	Entity string // entity name, "source" or "process_flow[i]"
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) hold.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(entity, field, format string, args ...any) error {
	return &ConfigError{Entity: entity, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EntityNames returns the configured entity names in sorted order.
func (c *Config) EntityNames() []string {
	names := make([]string, 0, len(c.Entities))
	for name := range c.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the whole configuration and returns every problem found,
// joined. Each is a *ConfigError.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.EntityNames() {
		errs = append(errs, validateEntity(name, c.Entities[name])...)
	}
	for i, step := range c.ProcessFlow {
		where := fmt.Sprintf("process_flow[%d]", i)
		spec, ok := c.Entities[step.EntityName]
		switch {
		case step.EntityName == "":
			errs = append(errs, configErr(where, "entity_name", "is required"))
		case !ok:
			errs = append(errs, configErr(where, "entity_name", "references undefined entity %q", step.EntityName))
		case step.Type != spec.Type:
			errs = append(errs, configErr(where, "type", "%q does not match entity %q of type %q", step.Type, step.EntityName, spec.Type))
		}
	}
	errs = append(errs, c.Source.validate()...)
	return errors.Join(errs...)
}

func validateEntity(name string, spec EntitySpec) []error {
	var errs []error
	p := spec.Params
	if strings.TrimSpace(name) == "" {
		errs = append(errs, configErr("entities", "name", "entity name must not be empty"))
	}
	unexpected := func(field string, set bool) {
		if set {
			errs = append(errs, configErr(name, field, "not a %s parameter", spec.Type))
		}
	}

	switch spec.Type {
	case Queue:
		if p.Capacity != nil && *p.Capacity <= 0 {
			errs = append(errs, configErr(name, "capacity", "must be positive, got %d", *p.Capacity))
		}
		unexpected("processing_time", p.ProcessingTime != nil)
		unexpected("processing_time_distribution", p.ProcessingTimeDistribution != nil)
		unexpected("length", p.Length != nil)
		unexpected("velocity", p.Velocity != nil)
	case Resource:
		if p.Capacity != nil && *p.Capacity <= 0 {
			errs = append(errs, configErr(name, "capacity", "must be positive, got %d", *p.Capacity))
		}
		if p.ProcessingTime != nil && !(*p.ProcessingTime >= 0 && finite(*p.ProcessingTime)) {
			errs = append(errs, configErr(name, "processing_time", "must be a non-negative number, got %g", *p.ProcessingTime))
		}
		if p.ProcessingTimeDistribution != nil {
			if p.ProcessingTime != nil {
				errs = append(errs, configErr(name, "processing_time_distribution", "cannot be combined with processing_time"))
			}
			if err := p.ProcessingTimeDistribution.Validate(); err != nil {
				errs = append(errs, configErr(name, "processing_time_distribution", "%v", err))
			}
		}
		unexpected("length", p.Length != nil)
		unexpected("velocity", p.Velocity != nil)
	case Conveyor:
		if p.Length != nil && !(*p.Length >= 0 && finite(*p.Length)) {
			errs = append(errs, configErr(name, "length", "must be a non-negative number, got %g", *p.Length))
		}
		if p.Velocity != nil && !(*p.Velocity > 0 && finite(*p.Velocity)) {
			errs = append(errs, configErr(name, "velocity", "must be positive, got %g", *p.Velocity))
		}
		unexpected("capacity", p.Capacity != nil)
		unexpected("processing_time", p.ProcessingTime != nil)
		unexpected("processing_time_distribution", p.ProcessingTimeDistribution != nil)
	default:
		errs = append(errs, configErr(name, "type", "unknown entity type %q; valid: QUEUE, RESOURCE, CONVEYOR", spec.Type))
	}
	return errs
}

func (s *Source) validate() []error {
	var errs []error
	if s.NumberOfLoads < 0 {
		errs = append(errs, configErr("source", "number_of_loads", "must be non-negative, got %d", s.NumberOfLoads))
	}
	if !(s.Interval >= 0 && finite(s.Interval)) {
		errs = append(errs, configErr("source", "interval", "must be a non-negative number, got %g", s.Interval))
	}
	if !(s.SimulationRuntime >= 0 && finite(s.SimulationRuntime)) {
		errs = append(errs, configErr("source", "simulation_runtime", "must be a non-negative number, got %g", s.SimulationRuntime))
	}
	if s.IntervalDistribution != nil {
		if err := s.IntervalDistribution.Validate(); err != nil {
			errs = append(errs, configErr("source", "interval_distribution", "%v", err))
		}
		if s.Schedule != "" {
			errs = append(errs, configErr("source", "schedule", "cannot be combined with interval_distribution"))
		}
	}
	if s.Schedule != "" {
		if err := workload.ValidateCron(s.Schedule); err != nil {
			errs = append(errs, configErr("source", "schedule", "%v", err))
		}
		if s.SimulationRuntime > workload.MaxCronHorizon {
			errs = append(errs, configErr("source", "simulation_runtime",
				"must be at most %d minutes with a schedule, got %g", workload.MaxCronHorizon, s.SimulationRuntime))
		}
	}
	return errs
}
