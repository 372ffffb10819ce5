package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/middleware"
	"github.com/gigline/backend/internal/models"
)

type CreateOrderRequest struct {
	JobApplicationID string `json:"job_application_id"`
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

// Create handles POST /orders (customer only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	appID, err := uuid.Parse(req.JobApplicationID)
	if err != nil {
		http.Error(w, `{"error":"invalid job_application_id"}`, http.StatusBadRequest)
		return
	}
	order, err := h.svc.CreateFromApplication(r.Context(), appID, u.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// Accept handles PATCH /orders/{id}/accept (customer only).
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Accept)
}

// Start handles PATCH /orders/{id}/start (worker only).
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Start)
}

// Complete handles PATCH /orders/{id}/complete (worker only).
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Complete)
}

// Get handles GET /orders/{id} (order worker or job customer).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Get)
}

// transition factors the shared shape of the id-addressed order endpoints:
// resolve caller, parse the path id, run the operation, write the order back.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid order id"}`, http.StatusBadRequest)
		return
	}
	order, err := op(r.Context(), id, u.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
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
