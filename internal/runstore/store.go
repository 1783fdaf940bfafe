// Package runstore keeps completed scenario runs and serializes them as
// snapshots. Each run holds its result and, when recorded, its event log.
package runstore

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linesim/linesim/sim/scenario"
	"github.com/linesim/linesim/sim/trace"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrRunExists   = errors.New("run already exists")
	ErrNoScenario  = errors.New("scenario_id is required")
)

// RunRecord is one completed run of a scenario.
type RunRecord struct {
	ID         string              `json:"run_id" yaml:"run_id"`
	ScenarioID string              `json:"scenario_id" yaml:"scenario_id"`
	StartedAt  time.Time           `json:"started_at" yaml:"started_at"`
	Duration   time.Duration       `json:"duration" yaml:"duration"`
	Seed       int64               `json:"seed" yaml:"seed"`
	Result     *scenario.Result    `json:"result" yaml:"result"`
	Events     []trace.EventRecord `json:"events,omitempty" yaml:"events,omitempty"`
}

// NewRunRecord wraps a result under a fresh run id.
func NewRunRecord(scenarioID string, startedAt time.Time, res *scenario.Result, events []trace.EventRecord) *RunRecord {
	rec := &RunRecord{
		ID:         uuid.NewString(),
		ScenarioID: scenarioID,
		StartedAt:  startedAt.UTC(),
		Duration:   time.Since(startedAt),
		Result:     res,
		Events:     events,
	}
	if res != nil {
		rec.Seed = res.Seed
	}
	return rec
}

// Store is an in-memory run repository safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	runs       map[string]*RunRecord
	byScenario map[string][]string // run ids in save order
}

func NewStore() *Store {
	return &Store{
		runs:       make(map[string]*RunRecord),
		byScenario: make(map[string][]string),
	}
}

// Save stores rec, assigning a run id when it has none.
func (s *Store) Save(rec *RunRecord) error {
	if rec.ScenarioID == "" {
		return ErrNoScenario
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", rec.ID, err)
	}
	if _, exists := s.runs[rec.ID]; exists {
		return fmt.Errorf("%w: %s", ErrRunExists, rec.ID)
	}
	s.runs[rec.ID] = rec
	s.byScenario[rec.ScenarioID] = append(s.byScenario[rec.ScenarioID], rec.ID)
	return nil
}

func (s *Store) Get(runID string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return rec, nil
}

// List returns a scenario's runs oldest first.
func (s *Store) List(scenarioID string) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byScenario[scenarioID]
	out := make([]*RunRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.runs[id])
	}
	return out
}

// Latest returns the most recently saved run of a scenario.
func (s *Store) Latest(scenarioID string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byScenario[scenarioID]
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no runs for scenario %s", ErrRunNotFound, scenarioID)
	}
	return s.runs[ids[len(ids)-1]], nil
}

// Scenarios returns the ids of every scenario with at least one run, sorted.
func (s *Store) Scenarios() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.byScenario))
	for id := range s.byScenario {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
