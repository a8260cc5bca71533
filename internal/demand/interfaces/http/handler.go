package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	calendar "heatdemand/internal/calendar/domain"
	demandapp "heatdemand/internal/demand/application"
	demand "heatdemand/internal/demand/domain"
	"heatdemand/internal/demand/interfaces/report"
	"heatdemand/internal/observability/metrics"
	weather "heatdemand/internal/weather/domain"
)

const (
	runsPath  = "/api/v1/runs"
	runPrefix = "/api/v1/runs/"
	latestID  = "latest"
)

// Runner executes a generation plan.
type Runner interface {
	Run(ctx context.Context, plan demandapp.Plan) (*demand.Run, error)
}

// RunStore reads persisted runs.
type RunStore interface {
	Get(ctx context.Context, id string) (*demand.Run, error)
	List(ctx context.Context) ([]demand.RunSummary, error)
}

// Handler serves the run API.
type Handler struct {
	runner   Runner
	store    RunStore
	defaults demandapp.Config
	logger   *log.Logger

	mu     sync.RWMutex
	latest *demand.Run
}

// NewHandler constructs a handler. defaults fills fields missing from
// POST bodies.
func NewHandler(runner Runner, store RunStore, defaults demandapp.Config, logger *log.Logger) (*Handler, error) {
	if runner == nil || store == nil {
		return nil, errors.New("run handler: nil dependency")
	}
	return &Handler{runner: runner, store: store, defaults: defaults, logger: logger}, nil
}

// ServeHTTP routes run endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == runsPath && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case r.URL.Path == runsPath && r.Method == http.MethodGet:
		h.handleList(w, r)
	case strings.HasPrefix(r.URL.Path, runPrefix) && r.Method == http.MethodGet:
		h.handleRunByID(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type createRequest struct {
	Year      int                        `json:"year"`
	Country   string                     `json:"country"`
	Buildings []demandapp.BuildingConfig `json:"buildings"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}
	cfg := h.defaults
	if req.Year != 0 {
		cfg.Year = req.Year
	}
	if req.Country != "" {
		cfg.Country = req.Country
	}
	if len(req.Buildings) > 0 {
		cfg.Buildings = req.Buildings
	}
	plan, err := cfg.Plan()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := h.runner.Run(r.Context(), plan)
	if err != nil {
		h.logf("run error: %v", err)
		http.Error(w, err.Error(), statusForError(err))
		return
	}
	h.mu.Lock()
	h.latest = run
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, toSummaryResponse(run.Summary()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.List(r.Context())
	if err != nil {
		h.logf("list runs error: %v", err)
		http.Error(w, "query runs error", http.StatusInternalServerError)
		return
	}
	resp := make([]summaryResponse, 0, len(runs))
	for _, s := range runs {
		resp = append(resp, toSummaryResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRunByID(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, runPrefix), "/")
	runID := parts[0]
	if runID == "" || len(parts) > 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	run, err := h.lookup(r.Context(), runID)
	if errors.Is(err, demand.ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logf("get run error: %v", err)
		http.Error(w, "query run error", http.StatusInternalServerError)
		return
	}
	if len(parts) == 1 {
		writeJSON(w, http.StatusOK, toDetailResponse(run))
		return
	}
	switch parts[1] {
	case "export.csv":
		h.export(w, run, "csv", "text/csv", func() ([]byte, error) {
			var buf bytes.Buffer
			err := report.WriteCSV(&buf, run.Table)
			return buf.Bytes(), err
		})
	case "export.xlsx":
		h.export(w, run, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func() ([]byte, error) {
			return report.BuildXLSX(run)
		})
	case "export.pdf":
		h.export(w, run, "pdf", "application/pdf", func() ([]byte, error) {
			return report.BuildSummaryPDF(run)
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) lookup(ctx context.Context, runID string) (*demand.Run, error) {
	if runID == latestID {
		h.mu.RLock()
		defer h.mu.RUnlock()
		if h.latest == nil {
			return nil, demand.ErrRunNotFound
		}
		return h.latest, nil
	}
	return h.store.Get(ctx, runID)
}

func (h *Handler) export(w http.ResponseWriter, run *demand.Run, format, contentType string, build func() ([]byte, error)) {
	started := time.Now()
	data, err := build()
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(started))
		h.logf("export %s error: %v", format, err)
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(started))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"heatdemand-"+run.ID+"."+format+"\"")
	_, _ = w.Write(data)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, calendar.ErrConfiguration),
		errors.Is(err, demand.ErrInvalidBuilding),
		errors.Is(err, demand.ErrInvalidYear):
		return http.StatusBadRequest
	case errors.Is(err, weather.ErrData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
