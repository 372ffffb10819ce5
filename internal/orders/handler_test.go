package orders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/gigline/backend/internal/middleware"
	"github.com/gigline/backend/internal/models"
)

func newTestMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", h.Create)
	mux.HandleFunc("PATCH /orders/{id}/start", h.Start)
	mux.HandleFunc("PATCH /orders/{id}/complete", h.Complete)
	mux.HandleFunc("GET /orders/{id}", h.Get)
	return mux
}

func doAs(t *testing.T, mux *http.ServeMux, user *models.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestHandler_CreateAndGet(t *testing.T) {
	f := newFixture(models.ApplicationStatusApproved)
	mux := newTestMux(NewHandler(f.svc, nil))
	customer := &models.User{ID: f.customer, Role: models.RoleCustomer}
	worker := &models.User{ID: f.worker, Role: models.RoleWorker}

	rr := doAs(t, mux, customer, http.MethodPost, "/orders",
		`{"job_application_id":"`+f.app.ID.String()+`"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rr.Code, rr.Body.String())
	}
	var created models.Order
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Status != models.OrderStatusAccepted {
		t.Errorf("created status: got %s", created.Status)
	}

	rr = doAs(t, mux, worker, http.MethodGet, "/orders/"+created.ID.String(), "")
	if rr.Code != http.StatusOK {
		t.Errorf("worker get: got %d", rr.Code)
	}

	stranger := &models.User{ID: uuid.New(), Role: models.RoleCustomer}
	rr = doAs(t, mux, stranger, http.MethodGet, "/orders/"+created.ID.String(), "")
	if rr.Code != http.StatusForbidden {
		t.Errorf("stranger get: got %d, want 403", rr.Code)
	}

	rr = doAs(t, mux, worker, http.MethodGet, "/orders/"+uuid.NewString(), "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown order: got %d, want 404", rr.Code)
	}
}

func TestHandler_CompleteBeforeStart(t *testing.T) {
	f := newFixture(models.ApplicationStatusApproved)
	mux := newTestMux(NewHandler(f.svc, nil))
	order := f.mustCreate(t)
	worker := &models.User{ID: f.worker, Role: models.RoleWorker}

	rr := doAs(t, mux, worker, http.MethodPatch, "/orders/"+order.ID.String()+"/complete", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("complete before start: got %d, want 400", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp["current_state"] != models.OrderStatusAccepted {
		t.Errorf("current_state: got %q, want ACCEPTED", resp["current_state"])
	}

	rr = doAs(t, mux, worker, http.MethodPatch, "/orders/"+order.ID.String()+"/start", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("start: got %d", rr.Code)
	}
	rr = doAs(t, mux, worker, http.MethodPatch, "/orders/"+order.ID.String()+"/complete", "")
	if rr.Code != http.StatusOK {
		t.Errorf("complete after start: got %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestHandler_InvalidIDs(t *testing.T) {
	f := newFixture(models.ApplicationStatusApproved)
	mux := newTestMux(NewHandler(f.svc, nil))
	customer := &models.User{ID: f.customer, Role: models.RoleCustomer}

	rr := doAs(t, mux, customer, http.MethodPost, "/orders", `{"job_application_id":"not-a-uuid"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad application id: got %d, want 400", rr.Code)
	}
	rr = doAs(t, mux, customer, http.MethodGet, "/orders/not-a-uuid", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad order id: got %d, want 400", rr.Code)
	}
	rr = doAs(t, mux, nil, http.MethodGet, "/orders/"+uuid.NewString(), "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("no user in context: got %d, want 401", rr.Code)
	}
}
