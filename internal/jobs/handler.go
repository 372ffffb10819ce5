package jobs

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/middleware"
	"github.com/gigline/backend/internal/models"
)

type CreateJobRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Location        string `json:"location"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// CreateJob handles POST /jobs (customer only).
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	job, err := h.svc.CreateJob(r.Context(), u.ID, req.Title, req.Description, req.Category, req.Location, req.HourlyRateCents)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// ListJobs handles GET /jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListOpen(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if list == nil {
		list = []*models.Job{}
	}
	writeJSON(w, http.StatusOK, list)
}

// ListMine handles GET /jobs/mine (customer only).
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.svc.ListByCustomer(r.Context(), u.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if list == nil {
		list = []*models.Job{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetJob handles GET /jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid job id"}`, http.StatusBadRequest)
		return
	}
	job, err := h.svc.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		resp := map[string]string{"error": ae.Msg}
		if ae.CurrentState != "" {
			resp["current_state"] = ae.CurrentState
		}
		writeJSON(w, apperr.HTTPStatus(ae), resp)
		return
	}
	log.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
