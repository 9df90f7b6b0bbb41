/*
handlers.go - HTTP API handlers for the violation-detection service

PURPOSE:
  Exposes clock-ring ingestion, the carrier roster, detection runs, and
  the OTDL maximization workflow over REST. Handles HTTP request/response,
  JSON serialization, and delegates all rule evaluation to article8.

ENDPOINTS:
  Ingest:
    POST   /api/rings                   Upsert a batch of clock rings
    GET    /api/carriers                Carrier roster
    POST   /api/carriers                Upsert a roster entry
    DELETE /api/carriers/{name}         Remove a roster entry

  Detection:
    POST   /api/detect                  Load a service week and run all rules
    GET    /api/violations/{rule}       Per-rule result table
    GET    /api/summary                 Remedy roll-up (daily or weekly)

  Maximization:
    GET    /api/maximization            Committed week status
    POST   /api/maximization/excusal    Manual per-carrier excusal override
    POST   /api/maximization/apply      Commit a date, re-run gated rules

  Admin:
    POST   /api/reset                   Clear all data (dev only)

ARCHITECTURE:
  Handler holds the store, the detection engine, and the latest detection
  results. Results are cached per service week; maximization edits mutate
  the cached week's ledger, and apply re-evaluates only the rules that
  read excusal state.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (including missing columns)
  - 404: Unknown rule, no detection run yet
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - article8/engine.go: Detection orchestration
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/f-o-o-g-s/eightbox/article8"
	"github.com/f-o-o-g-s/eightbox/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *article8.Engine

	mu      sync.Mutex
	results *article8.Results // latest detection pass, nil before first run
	summary *article8.Summary // aggregate of results, rebuilt with it
}

// NewHandler creates a new handler with the given store and calendar.
func NewHandler(store *sqlite.Store, cal article8.Calendar) *Handler {
	return &Handler{
		Store:  store,
		Engine: &article8.Engine{Calendar: cal},
	}
}

func (h *Handler) setResults(res *article8.Results) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = res
	h.summary = article8.Aggregate(res)
}

func (h *Handler) currentResults() (*article8.Results, *article8.Summary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.results, h.summary
}

// =============================================================================
// INGEST HANDLERS
// =============================================================================

// SaveRings upserts a batch of clock rings.
func (h *Handler) SaveRings(w http.ResponseWriter, r *http.Request) {
	var req SaveRingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Rings) == 0 {
		writeError(w, http.StatusBadRequest, "No rings in request", nil)
		return
	}

	batch := make([]sqlite.Ring, 0, len(req.Rings))
	for _, dto := range req.Rings {
		if dto.CarrierName == "" {
			writeError(w, http.StatusBadRequest, "Ring missing carrier_name", nil)
			return
		}
		date, err := parseAPIDate(dto.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		batch = append(batch, sqlite.Ring{
			CarrierName: dto.CarrierName,
			Date:        date,
			Total:       dto.Total,
			Code:        dto.Code,
			LeaveType:   dto.LeaveType,
			LeaveTime:   dto.LeaveTime,
			Moves:       dto.Moves,
		})
	}

	if err := h.Store.SaveRings(r.Context(), batch); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rings", err)
		return
	}

	RingsIngestedTotal.Add(float64(len(batch)))
	writeJSON(w, http.StatusCreated, map[string]int{"saved": len(batch)})
}

// ListCarriers returns the roster.
func (h *Handler) ListCarriers(w http.ResponseWriter, r *http.Request) {
	carriers, err := h.Store.ListCarriers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list carriers", err)
		return
	}

	dtos := make([]CarrierDTO, len(carriers))
	for i, c := range carriers {
		dtos[i] = CarrierDTO{Name: c.Name, ListStatus: c.ListStatus, HourLimit: c.HourLimit}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveCarrier upserts a roster entry.
func (h *Handler) SaveCarrier(w http.ResponseWriter, r *http.Request) {
	var req SaveCarrierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing carrier_name", nil)
		return
	}

	c := sqlite.Carrier{
		Name:       req.Name,
		ListStatus: string(article8.NormalizeListStatus(req.ListStatus)),
		HourLimit:  req.HourLimit,
	}
	if err := h.Store.SaveCarrier(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save carrier", err)
		return
	}

	writeJSON(w, http.StatusCreated, CarrierDTO{
		Name: c.Name, ListStatus: c.ListStatus, HourLimit: c.HourLimit,
	})
}

// DeleteCarrier removes a roster entry.
func (h *Handler) DeleteCarrier(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Store.DeleteCarrier(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete carrier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DETECTION HANDLERS
// =============================================================================

// RunDetection loads the service week containing the requested date and
// runs every detector over it. Results replace any prior cached pass.
func (h *Handler) RunDetection(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseAPIDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	table, err := h.Store.WeekTable(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load week", err)
		return
	}
	if err := table.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week data", err)
		return
	}
	rows, err := table.Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week data", err)
		return
	}

	start := time.Now()
	res, err := h.Engine.Detect(r.Context(), rows, nil)
	switch {
	case errors.Is(err, article8.ErrNoData):
		DetectionRunsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, "No clock rings in that service week", err)
		return
	case errors.Is(err, article8.ErrCancelled):
		DetectionRunsTotal.WithLabelValues("cancelled").Inc()
		writeError(w, http.StatusInternalServerError, "Detection cancelled", err)
		return
	case err != nil:
		DetectionRunsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "Detection failed", err)
		return
	}
	DetectionRunsTotal.WithLabelValues("ok").Inc()
	DetectionDuration.Observe(time.Since(start).Seconds())

	h.setResults(res)
	writeJSON(w, http.StatusOK, h.detectResponse(res))
}

// detectResponse builds the run summary and feeds the violation counters.
func (h *Handler) detectResponse(res *article8.Results) DetectResponse {
	counts := make(map[string]int, len(res.ByRule))
	for rule, recs := range res.ByRule {
		n := 0
		for _, rec := range recs {
			if rec.Verdict.Violated {
				n++
			}
		}
		counts[string(rule)] = n
		ViolationsDetected.WithLabelValues(string(rule)).Add(float64(n))
	}

	carriers := make(map[string]struct{})
	for _, row := range res.Prepared {
		carriers[row.CarrierName] = struct{}{}
	}

	return DetectResponse{
		WeekStart:  res.Week.Start.Format(article8.DateLayout),
		WeekEnd:    res.Week.End.Format(article8.DateLayout),
		Carriers:   len(carriers),
		Rows:       len(res.Prepared),
		Violations: counts,
	}
}

// GetViolations returns the fixed-schema result table for one rule.
func (h *Handler) GetViolations(w http.ResponseWriter, r *http.Request) {
	rule, ok := article8.ParseRule(chi.URLParam(r, "rule"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown rule", nil)
		return
	}

	res, _ := h.currentResults()
	if res == nil {
		writeError(w, http.StatusNotFound, "No detection run yet", nil)
		return
	}

	recs := res.ByRule[rule]
	dtos := make([]ViolationRecordDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toViolationRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the remedy roll-up for the cached week.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	res, sum := h.currentResults()
	if res == nil {
		writeError(w, http.StatusNotFound, "No detection run yet", nil)
		return
	}

	granularity := r.URL.Query().Get("granularity")
	if granularity == "" {
		granularity = "weekly"
	}
	if granularity != "daily" && granularity != "weekly" {
		writeError(w, http.StatusBadRequest, "granularity must be daily or weekly", nil)
		return
	}

	resp := SummaryResponse{
		WeekStart:   sum.Week.Start.Format(article8.DateLayout),
		WeekEnd:     sum.Week.End.Format(article8.DateLayout),
		Granularity: granularity,
		Carriers:    make([]CarrierSummaryDTO, 0, len(sum.Carriers)),
	}
	for _, c := range sum.Carriers {
		dto := CarrierSummaryDTO{
			CarrierName:       c.CarrierName,
			ListStatus:        string(c.ListStatus),
			WeeklyRemedyTotal: c.WeeklyRemedyTotal.String(),
		}
		if granularity == "daily" {
			dto.Daily = make(map[string]map[string]string, len(c.Daily))
			for date, byRule := range c.Daily {
				cells := make(map[string]string, len(byRule))
				for rule, remedy := range byRule {
					cells[string(rule)] = remedy.String()
				}
				dto.Daily[date.Format(article8.DateLayout)] = cells
			}
		} else {
			dto.WeekByRule = make(map[string]string, len(c.WeekByRule))
			for rule, remedy := range c.WeekByRule {
				dto.WeekByRule[string(rule)] = remedy.String()
			}
		}
		resp.Carriers = append(resp.Carriers, dto)
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// MAXIMIZATION HANDLERS
// =============================================================================

// GetMaximization returns the committed excusal state for the cached week.
func (h *Handler) GetMaximization(w http.ResponseWriter, r *http.Request) {
	res, _ := h.currentResults()
	if res == nil {
		writeError(w, http.StatusNotFound, "No detection run yet", nil)
		return
	}

	status := res.Maximization.Snapshot()
	days := make([]DayStatusDTO, 0)
	for date, ds := range status.DayStatuses() {
		days = append(days, DayStatusDTO{
			Date:        date.Format(article8.DateLayout),
			IsMaximized: ds.IsMaximized,
			Excused:     ds.Excused,
			Overridden:  ds.Overridden,
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	writeJSON(w, http.StatusOK, MaximizationStatusDTO{
		WeekStart: res.Week.Start.Format(article8.DateLayout),
		WeekEnd:   res.Week.End.Format(article8.DateLayout),
		Days:      days,
	})
}

// SetExcusal records a manual excusal override. Detection results for the
// excusal-gated rules stay stale until the date is applied.
func (h *Handler) SetExcusal(w http.ResponseWriter, r *http.Request) {
	var req ExcusalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseAPIDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	res, _ := h.currentResults()
	if res == nil {
		writeError(w, http.StatusNotFound, "No detection run yet", nil)
		return
	}
	if !res.Week.Contains(date) {
		writeError(w, http.StatusBadRequest, "Date outside the detected service week", nil)
		return
	}

	res.Maximization.SetManualExcusal(req.CarrierName, date, req.Excused)
	w.WriteHeader(http.StatusNoContent)
}

// ApplyMaximization commits one date's excusal state and re-runs the
// rules that read it.
func (h *Handler) ApplyMaximization(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseAPIDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	res, _ := h.currentResults()
	if res == nil {
		writeError(w, http.StatusNotFound, "No detection run yet", nil)
		return
	}
	if !res.Week.Contains(date) {
		writeError(w, http.StatusBadRequest, "Date outside the detected service week", nil)
		return
	}

	maximized := res.Maximization.Commit(date)

	updated, err := h.Engine.Redetect(r.Context(), res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Re-evaluation failed", err)
		return
	}
	h.setResults(updated)

	counts := make(map[string]int)
	for _, rule := range []article8.Rule{article8.Rule85D, article8.Rule85G} {
		n := 0
		for _, rec := range updated.ByRule[rule] {
			if rec.Verdict.Violated {
				n++
			}
		}
		counts[string(rule)] = n
	}

	writeJSON(w, http.StatusOK, ApplyResponse{
		Date:        date.Format(article8.DateLayout),
		IsMaximized: maximized,
		Violations:  counts,
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all persisted data and the cached results.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.results = nil
	h.summary = nil
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
