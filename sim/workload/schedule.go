package workload

import (
	"fmt"
	"math"
	"time"

	"github.com/robfig/cron/v3"
)

// Anchor is the wall-clock instant mapped to virtual time 0: a Monday midnight UTC.
var Anchor = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// CronSchedule releases loads on a standard five-field cron calendar.
// One virtual time unit is one minute after Anchor.
type CronSchedule struct {
	expr     string
	schedule cron.Schedule
}

// NewCronSchedule parses a "minute hour dom month dow" expression.
func NewCronSchedule(expr string) (*CronSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing cron schedule %q: %w", expr, err)
	}
	return &CronSchedule{expr: expr, schedule: schedule}, nil
}

// MaxCronHorizon is the latest virtual minute a calendar can be evaluated at,
// about a century after Anchor.
const MaxCronHorizon = 100 * 365 * 24 * 60

// ValidateCron reports whether expr is a valid five-field cron expression
// that fires at least once.
func ValidateCron(expr string) error {
	c, err := NewCronSchedule(expr)
	if err != nil {
		return err
	}
	if math.IsInf(c.First(), 1) {
		return fmt.Errorf("cron schedule %q never fires", expr)
	}
	return nil
}

func (c *CronSchedule) String() string { return c.expr }

// First returns the first firing at or after Anchor, or +Inf if there is none.
func (c *CronSchedule) First() float64 {
	next := c.schedule.Next(Anchor.Add(-time.Second))
	if next.IsZero() {
		return math.Inf(1)
	}
	return next.Sub(Anchor).Minutes()
}

// Next returns the minutes from now to the following firing, or +Inf past
// MaxCronHorizon or when the calendar has no further firing.
func (c *CronSchedule) Next(now float64) float64 {
	if now > MaxCronHorizon {
		return math.Inf(1)
	}
	// Whole minutes keep the offset exact; the calendar has minute resolution.
	whole := math.Floor(now)
	at := Anchor.Add(time.Duration(whole) * time.Minute).
		Add(time.Duration((now - whole) * float64(time.Minute)))
	next := c.schedule.Next(at)
	if next.IsZero() {
		return math.Inf(1)
	}
	return next.Sub(at).Minutes()
}
