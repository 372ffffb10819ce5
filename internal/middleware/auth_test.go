package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/gigline/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type stubTokens struct {
	id   uuid.UUID
	role string
	err  error
}

func (s *stubTokens) ValidateToken(_ context.Context, _ string) (uuid.UUID, string, error) {
	return s.id, s.role, s.err
}

type stubUsers struct {
	user *models.User
	err  error
}

func (s *stubUsers) GetByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

// okHandler writes 200 and the user email (for assertions).
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	u := UserFromCtx(r.Context())
	if u != nil {
		w.Write([]byte(u.Email))
	}
	w.WriteHeader(http.StatusOK)
})

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAuth_ValidToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "w@example.com", Role: models.RoleWorker}
	mw := Auth(&stubTokens{id: user.ID, role: user.Role}, &stubUsers{user: user})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-test-token")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != user.Email {
		t.Errorf("expected user email %q in body, got %q", user.Email, body)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	mw := Auth(&stubTokens{}, &stubUsers{})(okHandler)

	cases := []struct {
		name   string
		header string
	}{
		{"no header at all", ""},
		{"empty bearer", "Bearer "},
		{"wrong scheme", "Basic abc123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	mw := Auth(&stubTokens{err: errors.New("expired")}, &stubUsers{})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	worker := &models.User{ID: uuid.New(), Email: "w@example.com", Role: models.RoleWorker}

	mw := RequireRole(models.RoleCustomer)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithUser(req.Context(), worker))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("worker calling customer route: expected 403, got %d", rec.Code)
	}

	// No user in context at all.
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing user: expected 401, got %d", rec.Code)
	}

	// Matching role passes through.
	customer := &models.User{ID: uuid.New(), Email: "c@example.com", Role: models.RoleCustomer}
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithUser(req.Context(), customer))
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("customer calling customer route: expected 200, got %d", rec.Code)
	}
}
