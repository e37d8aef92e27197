package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/johnathamoeda-glitch/MotoDash/internal/api/middleware"
	"github.com/johnathamoeda-glitch/MotoDash/internal/cloudsync"
	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
	"github.com/johnathamoeda-glitch/MotoDash/internal/insights"
	"github.com/johnathamoeda-glitch/MotoDash/internal/remote"
	"github.com/johnathamoeda-glitch/MotoDash/internal/stats"
)

// writeSyncError maps sync controller failures to HTTP responses. Remote
// rejections carry the store's status and message through; transport
// failures become 502 so the frontend can tell "store said no" apart from
// "store unreachable".
func writeSyncError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		log.Error().Err(err).Msg("Remote store rejected the request")
		middleware.WriteError(w, apiErr.Status, apiErr.Message)
		return
	}

	var netErr *remote.NetworkError
	if errors.As(err, &netErr) {
		log.Error().Err(err).Msg("Remote store unreachable")
		middleware.WriteError(w, http.StatusBadGateway, "Remote store unreachable")
		return
	}

	log.Error().Err(err).Msg("Sync operation failed")
	middleware.WriteError(w, http.StatusInternalServerError, "Operation failed")
}

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	sync *cloudsync.Controller
	log  zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(sync *cloudsync.Controller, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{sync: sync, log: log}
}

// ListTransactions handles GET /api/transactions
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	txs := stats.FilterByDateRange(h.sync.Transactions(), query.Get("start"), query.Get("end"))

	if txs == nil {
		txs = []domain.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, txs)
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := tx.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sync.AddTransaction(r.Context(), tx); err != nil {
		writeSyncError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.sync.DeleteTransaction(r.Context(), id); err != nil {
		writeSyncError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// goalWithProgress is a goal decorated with its completion percentage over
// the requested period.
type goalWithProgress struct {
	domain.Goal
	Progress float64 `json:"progress"`
}

// GoalsHandler handles savings goal endpoints.
type GoalsHandler struct {
	sync *cloudsync.Controller
	log  zerolog.Logger
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(sync *cloudsync.Controller, log zerolog.Logger) *GoalsHandler {
	return &GoalsHandler{sync: sync, log: log}
}

// ListGoals handles GET /api/goals. Progress is computed over the same
// start/end window the dashboard stats use, so narrowing the period lowers
// goal completion along with net profit.
func (h *GoalsHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	txs := stats.FilterByDateRange(h.sync.Transactions(), query.Get("start"), query.Get("end"))

	goals := h.sync.Goals()
	out := make([]goalWithProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalWithProgress{
			Goal:     g,
			Progress: stats.ComputeGoalProgress(g, txs),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, out)
}

// CreateGoal handles POST /api/goals
func (h *GoalsHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var g domain.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := g.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sync.AddGoal(r.Context(), g); err != nil {
		writeSyncError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// DeleteGoal handles DELETE /api/goals/{id}
func (h *GoalsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.sync.DeleteGoal(r.Context(), id); err != nil {
		writeSyncError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// StatsHandler handles aggregation endpoints.
type StatsHandler struct {
	sync *cloudsync.Controller
	log  zerolog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(sync *cloudsync.Controller, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{sync: sync, log: log}
}

// GetStats handles GET /api/stats?start=&end=
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	txs := stats.FilterByDateRange(h.sync.Transactions(), query.Get("start"), query.Get("end"))

	series := stats.ComputeTimeSeries(txs)
	if series == nil {
		series = []stats.DailyTotal{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"stats":  stats.ComputeDashboardStats(txs),
		"series": series,
	})
}

// fuelRequest is the POST /api/fuel payload. When save is true the estimate
// is also recorded as a fuel expense dated on the given day.
type fuelRequest struct {
	AmountSpent   float64 `json:"amountSpent"`
	PricePerLiter float64 `json:"pricePerLiter"`
	DistanceKM    float64 `json:"distanceKm"`
	Date          string  `json:"date"`
	Save          bool    `json:"save"`
}

// EstimateFuel handles POST /api/fuel
func (h *StatsHandler) EstimateFuel(w http.ResponseWriter, r *http.Request) {
	var req fuelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	eff := stats.ComputeFuelEfficiency(req.AmountSpent, req.PricePerLiter, req.DistanceKM)

	if req.Save {
		tx := eff.AsExpense(req.Date, req.AmountSpent, req.DistanceKM)
		if err := tx.Validate(); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.sync.AddTransaction(r.Context(), tx); err != nil {
			writeSyncError(w, h.log, err)
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, eff)
}

// SyncHandler exposes sync state and manual refresh.
type SyncHandler struct {
	sync *cloudsync.Controller
	log  zerolog.Logger
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(sync *cloudsync.Controller, log zerolog.Logger) *SyncHandler {
	return &SyncHandler{sync: sync, log: log}
}

// GetState handles GET /api/sync
func (h *SyncHandler) GetState(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.sync.State())
}

// Refresh handles POST /api/refresh. Failures surface to the caller; this
// is the explicit pull-to-refresh path, not the background poll.
func (h *SyncHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Refresh(r.Context(), false); err != nil {
		writeSyncError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, h.sync.State())
}

// InsightsHandler handles AI insight generation.
type InsightsHandler struct {
	sync      *cloudsync.Controller
	generator *insights.Generator
	log       zerolog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(sync *cloudsync.Controller, generator *insights.Generator, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{sync: sync, generator: generator, log: log}
}

// Generate handles POST /api/insights
func (h *InsightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	text, err := h.generator.Generate(r.Context(), h.sync.Transactions())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate insights")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate insights")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"insights": text})
}
