package applications

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/middleware"
)

type SubmitRequest struct {
	JobID string `json:"job_id"`
}

type DecideRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Submit handles POST /applications (worker only).
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		http.Error(w, `{"error":"invalid job_id"}`, http.StatusBadRequest)
		return
	}
	app, err := h.svc.Submit(r.Context(), u.ID, jobID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// Decide handles PATCH /applications/{id}/status (customer only).
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid application id"}`, http.StatusBadRequest)
		return
	}
	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	app, err := h.svc.Decide(r.Context(), id, u.ID, req.Status)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// ListMine handles GET /applications (worker only).
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, err := h.svc.ListForWorker(r.Context(), u.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Withdraw handles DELETE /applications/{id} (owning worker only).
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid application id"}`, http.StatusBadRequest)
		return
	}
	if err := h.svc.Withdraw(r.Context(), id, u.ID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
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
