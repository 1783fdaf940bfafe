package scenario

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/linesim/linesim/sim/random"
)

// hclVariable declares an input referenced as var.<name>.
type hclVariable struct {
	Name    string    `hcl:"name,label"`
	Default cty.Value `hcl:"default,optional"`
}

// hclVariablesOnly is decoded first so defaults can seed the evaluation context.
type hclVariablesOnly struct {
	Variables []*hclVariable `hcl:"variable,block"`
	Remain    hcl.Body       `hcl:",remain"`
}

type hclEntity struct {
	Name                       string           `hcl:"name,label"`
	Type                       string           `hcl:"type"`
	Capacity                   *int             `hcl:"capacity,optional"`
	ProcessingTime             *float64         `hcl:"processing_time,optional"`
	ProcessingTimeDistribution *random.DistSpec `hcl:"processing_time_distribution,block"`
	Length                     *float64         `hcl:"length,optional"`
	Velocity                   *float64         `hcl:"velocity,optional"`
}

type hclFlowStep struct {
	Type       string `hcl:"type"`
	EntityName string `hcl:"entity_name"`
}

type hclSource struct {
	NumberOfLoads        int              `hcl:"number_of_loads"`
	Interval             *float64         `hcl:"interval,optional"`
	SimulationRuntime    float64          `hcl:"simulation_runtime"`
	IntervalDistribution *random.DistSpec `hcl:"interval_distribution,block"`
	Schedule             *string          `hcl:"schedule,optional"`
	Seed                 *int64           `hcl:"seed,optional"`
}

// hclScenarioFile represents the top-level structure of a scenario file for decoding.
type hclScenarioFile struct {
	Variables []*hclVariable `hcl:"variable,block"`
	Entities  []*hclEntity   `hcl:"entity,block"`
	Flow      []*hclFlowStep `hcl:"flow,block"`
	Source    *hclSource     `hcl:"source,block"`
}

// DecodeHCL parses an HCL scenario. Entities are `entity "<name>"` blocks,
// route steps are `flow` blocks in order, and `var.<name>` expressions are
// resolved from vars, falling back to `variable` block defaults.
func DecodeHCL(src []byte, filename string, vars map[string]string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var declared hclVariablesOnly
	diags = gohcl.DecodeBody(file.Body, nil, &declared)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode variables in %s: %w", filename, diags)
	}
	ctx, err := evalContext(declared.Variables, vars)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filename, err)
	}

	var parsed hclScenarioFile
	diags = gohcl.DecodeBody(file.Body, ctx, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if parsed.Source == nil {
		return nil, fmt.Errorf("scenario %s: missing source block", filename)
	}
	return parsed.toConfig()
}

// evalContext exposes var.* to expressions. CLI values that parse as numbers
// become numbers; anything else is a string.
func evalContext(declared []*hclVariable, overrides map[string]string) (*hcl.EvalContext, error) {
	values := make(map[string]cty.Value, len(declared)+len(overrides))
	known := make(map[string]bool, len(declared))
	for _, v := range declared {
		known[v.Name] = true
		if !v.Default.IsNull() {
			values[v.Name] = v.Default
		}
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(declared) > 0 && !known[name] {
			return nil, fmt.Errorf("variable %q is not declared", name)
		}
		raw := overrides[name]
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			values[name] = cty.NumberFloatVal(f)
		} else {
			values[name] = cty.StringVal(raw)
		}
	}

	for _, v := range declared {
		if _, ok := values[v.Name]; !ok {
			return nil, fmt.Errorf("variable %q has no value", v.Name)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(values)},
	}, nil
}

func (f *hclScenarioFile) toConfig() (*Config, error) {
	cfg := &Config{
		Entities:    make(map[string]EntitySpec, len(f.Entities)),
		ProcessFlow: make([]FlowStep, 0, len(f.Flow)),
	}
	for _, e := range f.Entities {
		if _, dup := cfg.Entities[e.Name]; dup {
			return nil, configErr(e.Name, "", "entity declared more than once")
		}
		cfg.Entities[e.Name] = EntitySpec{
			Type: EntityType(e.Type),
			Params: Params{
				Capacity:                   e.Capacity,
				ProcessingTime:             e.ProcessingTime,
				ProcessingTimeDistribution: e.ProcessingTimeDistribution,
				Length:                     e.Length,
				Velocity:                   e.Velocity,
			},
		}
	}
	for _, s := range f.Flow {
		cfg.ProcessFlow = append(cfg.ProcessFlow, FlowStep{Type: EntityType(s.Type), EntityName: s.EntityName})
	}
	src := f.Source
	cfg.Source = Source{
		NumberOfLoads:        src.NumberOfLoads,
		SimulationRuntime:    src.SimulationRuntime,
		IntervalDistribution: src.IntervalDistribution,
		Seed:                 src.Seed,
	}
	if src.Interval != nil {
		cfg.Source.Interval = *src.Interval
	}
	if src.Schedule != nil {
		cfg.Source.Schedule = *src.Schedule
	}
	return cfg, nil
}
