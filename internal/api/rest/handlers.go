package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Trigger starts an analysis run in the background. It returns false
// when a run is already in flight.
type Trigger func() bool

// Handler handles REST API requests
type Handler struct {
	store   *ReportStore
	trigger Trigger
	logger  *zap.Logger
}

// NewHandler creates a new REST handler
func NewHandler(store *ReportStore, trigger Trigger, logger *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		trigger: trigger,
		logger:  logger,
	}
}

// StartAnalysisResponse represents the response from queueing a run
type StartAnalysisResponse struct {
	Status string `json:"status"`
}

// GetReport handles GET /report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, updatedAt, ok := h.store.Get()
	if !ok {
		http.Error(w, "no report generated yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Last-Modified", updatedAt.Format(http.TimeFormat))
	w.Write([]byte(report))
}

// StartAnalysis handles POST /analyses
func (h *Handler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	if !h.trigger() {
		http.Error(w, "an analysis run is already in progress", http.StatusConflict)
		return
	}

	h.logger.Info("analysis run queued via API")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(StartAnalysisResponse{Status: "queued"})
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/report", h.GetReport)
	r.Post("/analyses", h.StartAnalysis)
}
