// Package router assembles the HTTP API under /api/v1.
package router

import (
	"net/http"

	"github.com/gigline/backend/internal/applications"
	"github.com/gigline/backend/internal/auth"
	"github.com/gigline/backend/internal/earnings"
	"github.com/gigline/backend/internal/jobs"
	"github.com/gigline/backend/internal/metrics"
	"github.com/gigline/backend/internal/middleware"
	"github.com/gigline/backend/internal/models"
	"github.com/gigline/backend/internal/orders"
	"github.com/gigline/backend/internal/reviews"
)

// New returns the API handler. Middleware chain per route:
// Auth -> (RequireRole) -> handler.
func New(
	authHandler *auth.Handler,
	jobsHandler *jobs.Handler,
	appsHandler *applications.Handler,
	ordersHandler *orders.Handler,
	earningsHandler *earnings.Handler,
	reviewsHandler *reviews.Handler,
	authMW func(http.Handler) http.Handler,
) http.Handler {
	mux := http.NewServeMux()
	base := "/api/v1"

	authed := func(h http.HandlerFunc) http.Handler {
		return authMW(h)
	}
	asRole := func(role string, h http.HandlerFunc) http.Handler {
		return authMW(middleware.RequireRole(role)(h))
	}
	worker := func(h http.HandlerFunc) http.Handler { return asRole(models.RoleWorker, h) }
	customer := func(h http.HandlerFunc) http.Handler { return asRole(models.RoleCustomer, h) }

	mux.HandleFunc("POST "+base+"/auth/register", authHandler.Register)
	mux.HandleFunc("POST "+base+"/auth/login", authHandler.Login)
	mux.Handle("GET "+base+"/account/me", authed(authHandler.Me))

	mux.Handle("POST "+base+"/jobs", customer(jobsHandler.CreateJob))
	mux.Handle("GET "+base+"/jobs", authed(jobsHandler.ListJobs))
	mux.Handle("GET "+base+"/jobs/mine", customer(jobsHandler.ListMine))
	mux.Handle("GET "+base+"/jobs/{id}", authed(jobsHandler.GetJob))

	mux.Handle("POST "+base+"/applications", worker(appsHandler.Submit))
	mux.Handle("GET "+base+"/applications", worker(appsHandler.ListMine))
	mux.Handle("PATCH "+base+"/applications/{id}/status", customer(appsHandler.Decide))
	mux.Handle("DELETE "+base+"/applications/{id}", worker(appsHandler.Withdraw))

	mux.Handle("POST "+base+"/orders", customer(ordersHandler.Create))
	mux.Handle("PATCH "+base+"/orders/{id}/accept", customer(ordersHandler.Accept))
	mux.Handle("PATCH "+base+"/orders/{id}/start", worker(ordersHandler.Start))
	mux.Handle("PATCH "+base+"/orders/{id}/complete", worker(ordersHandler.Complete))
	mux.Handle("GET "+base+"/orders/{id}", authed(ordersHandler.Get))

	mux.Handle("GET "+base+"/earnings/worker", worker(earningsHandler.ListMine))

	mux.Handle("POST "+base+"/reviews", customer(reviewsHandler.Create))
	mux.Handle("PATCH "+base+"/reviews/{id}/reply", worker(reviewsHandler.Reply))

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}
