package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linesim/linesim/internal/publish"
	"github.com/linesim/linesim/internal/runstore"
	"github.com/linesim/linesim/sim/scenario"
	"github.com/linesim/linesim/sim/stats"
	"github.com/linesim/linesim/sim/trace"
)

var (
	seed           int64   // Seed override for source.seed
	replications   int     // Independent runs with consecutive seeds
	confidence     float64 // Confidence level for intervals
	bucket         float64 // WIP sampling step in time units
	eventsPath     string  // Event log output, JSON lines
	snapshotDir    string  // Directory for run snapshots
	snapshotFormat string  // json, yaml or proto
	publishURL     string  // socket.io viewer endpoint
)

// runOptions is the resolved input of one `linesim run`.
type runOptions struct {
	scenarioPath   string
	vars           map[string]string
	seed           *int64
	replications   int
	confidence     float64
	bucket         float64
	eventsPath     string
	snapshotDir    string
	snapshotFormat runstore.Format
	publishURL     string
}

// runCmd executes one scenario and prints its result as JSON
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a manufacturing line scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseVars(scenarioVars)
		if err != nil {
			return err
		}
		format, err := runstore.ParseFormat(snapshotFormat)
		if err != nil {
			return err
		}
		opts := runOptions{
			scenarioPath:   scenarioPath,
			vars:           vars,
			replications:   replications,
			confidence:     confidence,
			bucket:         bucket,
			eventsPath:     eventsPath,
			snapshotDir:    snapshotDir,
			snapshotFormat: format,
			publishURL:     publishURL,
		}
		// Only an explicit --seed overrides the scenario's own seed.
		if cmd.Flags().Changed("seed") {
			opts.seed = &seed
		}
		return runScenario(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func runScenario(ctx context.Context, o runOptions, out io.Writer) error {
	if o.scenarioPath == "" {
		return fmt.Errorf("--scenario is required")
	}
	cfg, err := scenario.Load(o.scenarioPath, o.vars)
	if err != nil {
		return err
	}

	var runOpts []scenario.Option
	if o.seed != nil {
		runOpts = append(runOpts, scenario.WithSeed(*o.seed))
	}
	runOpts = append(runOpts, scenario.WithConfidence(o.confidence), scenario.WithBucket(o.bucket))

	if o.replications > 1 {
		rep, err := scenario.Replicate(*cfg, o.replications, o.confidence, runOpts...)
		if err != nil {
			return err
		}
		return writeJSON(out, rep)
	}

	// Events are recorded whenever some consumer needs them.
	var log *trace.Log
	if o.eventsPath != "" || o.snapshotDir != "" || o.publishURL != "" {
		log = trace.NewLog()
		runOpts = append(runOpts, scenario.WithRecorder(log))
	}

	startedAt := time.Now()
	res, err := scenario.Run(*cfg, runOpts...)
	if err != nil {
		return err
	}
	var events []trace.EventRecord
	if log != nil {
		events = log.Records
	}
	rec := runstore.NewRunRecord(scenarioID(o.scenarioPath), startedAt, res, events)

	if o.eventsPath != "" {
		if err := writeEvents(o.eventsPath, events); err != nil {
			return err
		}
		logrus.Infof("Wrote %d events to %s", len(events), o.eventsPath)
	}
	if o.snapshotDir != "" {
		path, err := runstore.WriteSnapshot(o.snapshotDir, rec, o.snapshotFormat)
		if err != nil {
			return err
		}
		logrus.Infof("Wrote snapshot %s", path)
	}
	if o.publishURL != "" {
		client, err := publish.Dial(ctx, o.publishURL, publish.DialOptions{})
		if err != nil {
			return err
		}
		defer client.Close()
		if _, err := publish.NewPublisher(client, 0).Publish(rec.ScenarioID, rec.ID, events, res); err != nil {
			return err
		}
	}
	return writeJSON(out, res)
}

// writeEvents writes one JSON object per line.
func writeEvents(path string, events []trace.EventRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating event log: %w", err)
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing event log: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing event log: %w", err)
	}
	return f.Close()
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (.yaml, .yml, .json, .hcl)")
	runCmd.Flags().StringArrayVar(&scenarioVars, "var", nil, "HCL variable override name=value (repeatable)")
	runCmd.Flags().Int64Var(&seed, "seed", scenario.DefaultSeed, "Seed for random variates (overrides source.seed when set)")
	runCmd.Flags().IntVar(&replications, "replications", 1, "Independent runs with consecutive seeds")
	runCmd.Flags().Float64Var(&confidence, "confidence", stats.DefaultConfidence, "Confidence level for lead-time intervals")
	runCmd.Flags().Float64Var(&bucket, "bucket", 0, "WIP sampling step (0 samples the horizon in 20 intervals)")
	runCmd.Flags().StringVar(&eventsPath, "events", "", "Write the event log as JSON lines to this file")
	runCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Write a run snapshot to this directory")
	runCmd.Flags().StringVar(&snapshotFormat, "snapshot-format", string(runstore.FormatJSON), "Snapshot format (json, yaml, proto)")
	runCmd.Flags().StringVar(&publishURL, "publish", "", "socket.io endpoint to stream the run to")
}
