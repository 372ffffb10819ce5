// Package reviews attaches the customer's one-time rating to a completed
// order and lets the assigned worker reply exactly once.
package reviews

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/metrics"
	"github.com/gigline/backend/internal/models"
	"github.com/gigline/backend/internal/notify"
)

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store is the review persistence interface used by the service.
type Store interface {
	// InsertTx writes the review; a duplicate for the order surfaces as
	// apperr.Conflict.
	InsertTx(ctx context.Context, tx pgx.Tx, rv *models.Review) (*models.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	// SetReply attaches the reply only while worker_reply is still null and
	// reports whether the write happened.
	SetReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) (bool, error)
}

// OrderLookup resolves the reviewed order (status, worker).
type OrderLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// JobLookup resolves the job behind the order (customer ownership).
type JobLookup interface {
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
}

type Service struct {
	db                 TxBeginner
	store              Store
	orders             OrderLookup
	jobs               JobLookup
	insertNotification notify.InsertTxFunc
	log                *slog.Logger
}

func NewService(db TxBeginner, store Store, orders OrderLookup, jobs JobLookup, insertNotification notify.InsertTxFunc, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, store: store, orders: orders, jobs: jobs, insertNotification: insertNotification, log: log}
}

// Create attaches the customer's review to a completed order. Input is
// validated before any storage access. The unique constraint on order_id
// turns a second review into a Conflict even when two creates race.
func (s *Service) Create(ctx context.Context, reviewerID, orderID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return nil, apperr.Validation("comment must not be empty")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, order.JobID)
	if err != nil {
		return nil, err
	}
	if job.CustomerID != reviewerID {
		return nil, apperr.Unauthorized("caller does not own the job")
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, apperr.InvalidState("only a completed order can be reviewed", order.Status)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rv, err := s.store.InsertTx(ctx, tx, &models.Review{
		OrderID:    orderID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
	})
	if err != nil {
		return nil, err
	}
	if err := s.insertNotification(ctx, tx, notify.NotificationArgs{
		Event:       notify.EventReviewCreated,
		RecipientID: order.WorkerID,
		ActorID:     reviewerID,
		JobID:       &order.JobID,
		OrderID:     &order.ID,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.ReviewsCreated.Inc()
	return rv, nil
}

// Reply attaches the worker's single reply. The conditional update on
// worker_reply IS NULL decides the winner when two replies race.
func (s *Service) Reply(ctx context.Context, reviewID, workerID uuid.UUID, reply string) (*models.Review, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, apperr.Validation("reply must not be empty")
	}

	rv, err := s.store.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, rv.OrderID)
	if err != nil {
		return nil, err
	}
	if order.WorkerID != workerID {
		return nil, apperr.Unauthorized("caller is not the reviewed worker")
	}
	if rv.WorkerReply != nil {
		return nil, apperr.Conflict("review already has a reply")
	}

	now := time.Now().UTC()
	written, err := s.store.SetReply(ctx, reviewID, reply, now)
	if err != nil {
		return nil, err
	}
	if !written {
		return nil, apperr.Conflict("review already has a reply")
	}

	metrics.ReviewReplies.Inc()
	rv.WorkerReply = &reply
	rv.RepliedAt = &now
	return rv, nil
}
