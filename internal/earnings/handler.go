package earnings

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/middleware"
	"github.com/gigline/backend/internal/models"
)

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

type listResponse struct {
	Earnings []*models.Earning `json:"earnings"`
	Summary  *Summary          `json:"summary"`
}

// ListMine handles GET /earnings/worker (worker only).
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromCtx(r.Context())
	if u == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	list, summary, err := h.svc.ListForWorker(r.Context(), u.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Earnings: list, Summary: summary})
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
