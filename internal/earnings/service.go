// Package earnings writes and serves the immutable settlement records. An
// earning is created inside the order-completion transaction and never
// updated afterwards.
package earnings

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigline/backend/internal/metrics"
	"github.com/gigline/backend/internal/models"
)

// Store is the earning persistence interface used by the service.
type Store interface {
	// InsertTx writes the earning, or returns the existing one for the
	// order. The bool reports whether a new row was inserted.
	InsertTx(ctx context.Context, tx pgx.Tx, e *models.Earning) (*models.Earning, bool, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Earning, error)
	SummaryByWorker(ctx context.Context, workerID uuid.UUID) (*Summary, error)
}

// Summary aggregates a worker's settled earnings.
type Summary struct {
	TotalCents int64 `json:"total_cents"`
	Count      int64 `json:"count"`
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// SettleTx records the earning for a completed order within the caller's
// transaction. The amount is a flat copy of the job's hourly rate at
// settlement time. The unique constraint on order_id makes repeated calls
// return the first settlement unchanged.
func (s *Service) SettleTx(ctx context.Context, tx pgx.Tx, order *models.Order, job *models.Job) (*models.Earning, error) {
	e := &models.Earning{
		OrderID:          order.ID,
		JobApplicationID: order.JobApplicationID,
		JobID:            order.JobID,
		WorkerID:         order.WorkerID,
		CustomerID:       job.CustomerID,
		AmountCents:      job.HourlyRateCents,
		Status:           models.EarningStatusCompleted,
	}
	settled, created, err := s.store.InsertTx(ctx, tx, e)
	if err != nil {
		return nil, err
	}
	if created {
		metrics.EarningsSettled.Inc()
		s.log.Info("earning settled",
			"earning_id", settled.ID,
			"order_id", order.ID,
			"amount_cents", settled.AmountCents)
	}
	return settled, nil
}

// ListForWorker returns a worker's earnings newest first along with their
// aggregate summary.
func (s *Service) ListForWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Earning, *Summary, error) {
	list, err := s.store.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.store.SummaryByWorker(ctx, workerID)
	if err != nil {
		return nil, nil, err
	}
	if list == nil {
		list = []*models.Earning{}
	}
	return list, summary, nil
}
