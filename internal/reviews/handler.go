package reviews

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/middleware"
)

type CreateReviewRequest struct {
	OrderID string `json:"order_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReplyRequest struct {
	Reply string `json:"reply"`
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

// Create handles POST /reviews (customer only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		http.Error(w, `{"error":"invalid order_id"}`, http.StatusBadRequest)
		return
	}
	rv, err := h.svc.Create(r.Context(), u.ID, orderID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

// Reply handles PATCH /reviews/{id}/reply (worker only).
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid review id"}`, http.StatusBadRequest)
		return
	}
	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	rv, err := h.svc.Reply(r.Context(), id, u.ID, req.Reply)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
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
