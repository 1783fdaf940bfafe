// Package publish streams a finished run to a live viewer over socket.io.
//
// A run is published after it completes: first its event log in batches on
// EventRecords, then its result on EventResult. The simulation itself never
// blocks on the network.
package publish

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/linesim/linesim/sim/scenario"
	"github.com/linesim/linesim/sim/trace"
)

const (
	EventRecords = "linesim:events"
	EventResult  = "linesim:result"

	// DefaultBatchSize is the number of records sent per EventRecords message.
	DefaultBatchSize = 500
)

var ErrNoEmitter = errors.New("publisher has no emitter")

// Emitter sends one named message.
type Emitter interface {
	Emit(event string, payload any)
}

// RecordsMessage carries one batch of a run's event log.
type RecordsMessage struct {
	ScenarioID string              `json:"scenario_id"`
	RunID      string              `json:"run_id"`
	Batch      int                 `json:"batch"`
	Records    []trace.EventRecord `json:"records"`
}

// ResultMessage carries a run's result; it is always the last message of a run.
type ResultMessage struct {
	ScenarioID string           `json:"scenario_id"`
	RunID      string           `json:"run_id"`
	Batches    int              `json:"batches"`
	Result     *scenario.Result `json:"result"`
}

// Publisher batches runs onto an Emitter.
type Publisher struct {
	emitter   Emitter
	batchSize int
}

// NewPublisher returns a Publisher; batchSize <= 0 uses DefaultBatchSize.
func NewPublisher(em Emitter, batchSize int) *Publisher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Publisher{emitter: em, batchSize: batchSize}
}

// Publish sends events then res. It returns the number of messages emitted.
func (p *Publisher) Publish(scenarioID, runID string, events []trace.EventRecord, res *scenario.Result) (int, error) {
	if p.emitter == nil {
		return 0, ErrNoEmitter
	}
	if res == nil {
		return 0, fmt.Errorf("publishing run %s: nil result", runID)
	}
	batches := 0
	for start := 0; start < len(events); start += p.batchSize {
		end := min(start+p.batchSize, len(events))
		p.emitter.Emit(EventRecords, RecordsMessage{
			ScenarioID: scenarioID,
			RunID:      runID,
			Batch:      batches,
			Records:    events[start:end],
		})
		batches++
	}
	p.emitter.Emit(EventResult, ResultMessage{
		ScenarioID: scenarioID,
		RunID:      runID,
		Batches:    batches,
		Result:     res,
	})
	logrus.Infof("Published run %s of %s: %d records in %d batches", runID, scenarioID, len(events), batches)
	return batches + 1, nil
}
