package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesim/linesim/internal/runstore"
	"github.com/linesim/linesim/sim/scenario"
	"github.com/linesim/linesim/sim/trace"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// fixture resolves a file under the repository's testdata/.
func fixture(name string) string {
	return filepath.Join("..", "testdata", name)
}

func defaultRunOptions(path string) runOptions {
	return runOptions{
		scenarioPath:   path,
		replications:   1,
		confidence:     0.95,
		snapshotFormat: runstore.FormatJSON,
	}
}

func TestRunScenario_PrintsResultJSON(t *testing.T) {
	// GIVEN the reference scenario
	var out bytes.Buffer

	// WHEN run from the CLI
	require.NoError(t, runScenario(context.Background(), defaultRunOptions(fixture("reference.yaml")), &out))

	// THEN the result JSON carries the headline metrics
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 10.0, got["total_processed"])
	assert.Equal(t, 24.0, got["average_lead_time"])
	assert.Contains(t, got, "wip_over_time")
	assert.Contains(t, got, "resource_utilization")
	assert.Contains(t, got, "lead_time_summary")
}

func TestRunScenario_HCLVars(t *testing.T) {
	// GIVEN the HCL reference with a slower machine
	o := defaultRunOptions(fixture("reference.hcl"))
	o.vars = map[string]string{"machine_time": "6"}
	var out bytes.Buffer

	require.NoError(t, runScenario(context.Background(), o, &out))

	// THEN load k finishes at 6k+16 after arriving at 3k: lead 3k+16, average 29.5
	var res scenario.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 29.5, res.AverageLeadTime)
}

func TestRunScenario_WritesEventsAndSnapshot(t *testing.T) {
	// GIVEN event and snapshot outputs
	dir := t.TempDir()
	o := defaultRunOptions(fixture("reference.yaml"))
	o.eventsPath = filepath.Join(dir, "events.jsonl")
	o.snapshotDir = filepath.Join(dir, "snapshots")
	o.snapshotFormat = runstore.FormatProto

	require.NoError(t, runScenario(context.Background(), o, &bytes.Buffer{}))

	// THEN every event is one JSON line, starting with the first arrival
	f, err := os.Open(o.eventsPath)
	require.NoError(t, err)
	defer f.Close()
	var events []trace.EventRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e trace.EventRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		events = append(events, e)
	}
	require.NoError(t, sc.Err())
	require.NotEmpty(t, events)
	assert.Equal(t, trace.KindArrive, events[0].Kind)
	assert.Equal(t, "Load_1", events[0].Item)

	// THEN one proto snapshot decodes back to the run
	matches, err := filepath.Glob(filepath.Join(o.snapshotDir, "reference-*.pb"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	rec, err := runstore.DecodeProtoSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, "reference", rec.ScenarioID)
	assert.Equal(t, 10, rec.Result.TotalProcessed)
	assert.Len(t, rec.Events, len(events))
}

func TestRunScenario_Replications(t *testing.T) {
	o := defaultRunOptions(fixture("stochastic.yaml"))
	o.replications = 3
	var out bytes.Buffer

	require.NoError(t, runScenario(context.Background(), o, &out))

	var rep scenario.Replication
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, 3, rep.Replications)
	assert.Equal(t, []int64{7, 8, 9}, rep.Seeds)
	require.NotNil(t, rep.Summary)
}

func TestRunScenario_SeedOverride(t *testing.T) {
	// GIVEN the stochastic scenario run with its own seed and with an override
	run := func(seed *int64) scenario.Result {
		o := defaultRunOptions(fixture("stochastic.yaml"))
		o.seed = seed
		var out bytes.Buffer
		require.NoError(t, runScenario(context.Background(), o, &out))
		var res scenario.Result
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		return res
	}
	seven, hundred := int64(7), int64(100)

	// THEN overriding with the scenario's seed changes nothing
	assert.Equal(t, run(nil), run(&seven))
	// THEN another seed changes the outcome
	assert.NotEqual(t, run(nil).LeadTimeSummary, run(&hundred).LeadTimeSummary)
}

func TestRunScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts runOptions
	}{
		{"no scenario", defaultRunOptions("")},
		{"missing file", defaultRunOptions(fixture("missing.yaml"))},
		{"bad confidence", func() runOptions {
			o := defaultRunOptions(fixture("reference.yaml"))
			o.confidence = 2
			return o
		}()},
		{"unreachable publisher", func() runOptions {
			o := defaultRunOptions(fixture("reference.yaml"))
			o.publishURL = "ftp://nowhere"
			return o
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, runScenario(context.Background(), tt.opts, &bytes.Buffer{}))
		})
	}
}

func TestRunScenario_InvalidScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	src := strings.ReplaceAll(mustRead(t, fixture("reference.yaml")), "velocity: 2", "velocity: 0")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	err := runScenario(context.Background(), defaultRunOptions(path), &bytes.Buffer{})
	assert.ErrorIs(t, err, scenario.ErrConfiguration)
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"machine_time=7", "label=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"machine_time": "7", "label": "a=b"}, vars)

	vars, err = parseVars(nil)
	require.NoError(t, err)
	assert.Nil(t, vars)

	_, err = parseVars([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseVars([]string{"=3"})
	assert.Error(t, err)
}

func TestScenarioID(t *testing.T) {
	assert.Equal(t, "reference", scenarioID("testdata/reference.yaml"))
	assert.Equal(t, "line.v2", scenarioID("/tmp/line.v2.hcl"))
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
