package scenario

import (
	"github.com/linesim/linesim/sim/stats"
	"github.com/linesim/linesim/sim/trace"
)

// Result is the outcome of one run.
type Result struct {
	TotalProcessed      int                 `json:"total_processed" yaml:"total_processed"`
	AverageLeadTime     float64             `json:"average_lead_time" yaml:"average_lead_time"`
	WIPOverTime         []trace.WIPPoint    `json:"wip_over_time" yaml:"wip_over_time"`
	ResourceUtilization []trace.Utilization `json:"resource_utilization" yaml:"resource_utilization"`
	LeadTimeSummary     *stats.Summary      `json:"lead_time_summary,omitempty" yaml:"lead_time_summary,omitempty"`

	LeadTimes []float64 `json:"-" yaml:"-"` // completion order, unrounded
	Seed      int64     `json:"-" yaml:"-"`
	Events    int       `json:"-" yaml:"-"` // scheduler events executed
}
