// Package metrics exposes Prometheus counters for lifecycle transitions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_applications_submitted_total",
		Help: "Job applications submitted",
	})
	ApplicationsDecided = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gigline_applications_decided_total",
		Help: "Customer decisions on applications",
	}, []string{"decision"})
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_orders_created_total",
		Help: "Orders created from approved applications",
	})
	OrdersStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_orders_started_total",
		Help: "Orders started by their worker",
	})
	OrdersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_orders_completed_total",
		Help: "Orders completed by their worker",
	})
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_orders_cancelled_total",
		Help: "Orders cancelled before completion",
	})
	EarningsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_earnings_settled_total",
		Help: "Earnings settled from completed orders",
	})
	ReviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_reviews_created_total",
		Help: "Reviews created on completed orders",
	})
	ReviewReplies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gigline_review_replies_total",
		Help: "Worker replies attached to reviews",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
