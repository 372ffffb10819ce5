package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("order")); got != KindNotFound {
		t.Errorf("KindOf(NotFound): got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain error): got %v, want KindUnknown", got)
	}
	// Wrapped taxonomy errors still resolve.
	wrapped := fmt.Errorf("decide application: %w", Unauthorized("caller does not own the job"))
	if got := KindOf(wrapped); got != KindUnauthorized {
		t.Errorf("KindOf(wrapped): got %v, want KindUnauthorized", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("review"), http.StatusNotFound},
		{Unauthorized("wrong worker"), http.StatusForbidden},
		{InvalidState("order not started", "ACCEPTED"), http.StatusBadRequest},
		{Conflict("review already exists for this order"), http.StatusBadRequest},
		{Validation("rating must be between 1 and 5"), http.StatusBadRequest},
		{errors.New("pg down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v): got %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorMessageIncludesState(t *testing.T) {
	err := InvalidState("cannot complete order before starting it", "ACCEPTED")
	want := "invalid_state: cannot complete order before starting it (current state ACCEPTED)"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
