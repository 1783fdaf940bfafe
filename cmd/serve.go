package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linesim/linesim/internal/runstore"
	"github.com/linesim/linesim/sim/scenario"
	"github.com/linesim/linesim/sim/trace"
)

var (
	serveAddr    string // Listen address
	scenariosDir string // Directory holding <id>.{yaml,yml,json,hcl}
)

// Server answers statistics queries by running scenarios from a directory.
type Server struct {
	mux   *http.ServeMux
	dir   string
	store *runstore.Store
}

// statisticsResponse is a run's result tagged with its scenario and run ids.
type statisticsResponse struct {
	ScenarioID string `json:"scenario_id"`
	RunID      string `json:"run_id"`
	*scenario.Result
}

// runSummary is one entry of a scenario's run listing.
type runSummary struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	Seed            int64     `json:"seed"`
	TotalProcessed  int       `json:"total_processed"`
	AverageLeadTime float64   `json:"average_lead_time"`
}

func NewServer(dir string, store *runstore.Store) *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		dir:   dir,
		store: store,
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /scenarios/{id}/statistics", s.handleStatistics)
	s.mux.HandleFunc("GET /scenarios/{id}/runs", s.handleRuns)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatistics runs the scenario once and stores the run.
// An optional ?seed= overrides the scenario's seed.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, err := scenario.Find(s.dir, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.writeError(w, http.StatusNotFound, "scenario not found: "+id)
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var opts []scenario.Option
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid seed: "+raw)
			return
		}
		opts = append(opts, scenario.WithSeed(v))
	}

	cfg, err := scenario.Load(path, nil)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	log := trace.NewLog()
	opts = append(opts, scenario.WithRecorder(log))

	startedAt := time.Now()
	res, err := scenario.Run(*cfg, opts...)
	if err != nil {
		if errors.Is(err, scenario.ErrConfiguration) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logrus.Errorf("Run of scenario %s failed: %v", id, err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := runstore.NewRunRecord(id, startedAt, res, log.Records)
	if err := s.store.Save(rec); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logrus.Infof("Scenario %s run %s: %d processed", id, rec.ID, res.TotalProcessed)
	s.writeJSON(w, http.StatusOK, statisticsResponse{ScenarioID: id, RunID: rec.ID, Result: res})
}

// handleRuns lists stored runs of a scenario, oldest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	runs := s.store.List(id)
	out := make([]runSummary, 0, len(runs))
	for _, rec := range runs {
		out = append(out, runSummary{
			RunID:           rec.ID,
			StartedAt:       rec.StartedAt,
			Seed:            rec.Seed,
			TotalProcessed:  rec.Result.TotalProcessed,
			AverageLeadTime: rec.Result.AverageLeadTime,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"scenario_id": id, "runs": out})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.Errorf("failed to encode JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scenario statistics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(scenariosDir); err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           NewServer(scenariosDir, runstore.NewStore()).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		logrus.Infof("Serving scenarios from %s on %s", scenariosDir, serveAddr)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&scenariosDir, "scenarios", "scenarios", "Directory of scenario files")
}
