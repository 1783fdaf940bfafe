// Package sim provides the discrete-event kernel and line entities for linesim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - scheduler.go: virtual clock, (time, seq) event ordering, Run to a horizon
//   - queue.go, resource.go, conveyor.go: entity contracts that suspend and resume via the scheduler
//   - executor.go: drives one WorkItem through its route, strictly serially
//
// # Architecture
//
// Suspension is expressed as continuations. An entity operation takes a
// callback and arranges for the scheduler to invoke it when the wait
// condition is met; grants and resumptions are zero-delay events so every
// run is ordered by (time, submission sequence) alone.
//
// Sub-packages:
//   - sim/random/: seeded variate generators and duration samplers
//   - sim/stats/: descriptive statistics and Student-t confidence intervals
//   - sim/trace/: structured EventRecords and time-bucketed summaries
//   - sim/workload/: arrival processes (fixed, stochastic, calendar)
//   - sim/scenario/: configuration, entity graph construction and the Run entry point
package sim
