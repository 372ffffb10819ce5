// Package orders manages the engagement lifecycle from an approved
// application to completion. Every transition locks the order row, so
// concurrent PATCHes serialize and at most one of them wins.
package orders

import (
	"context"
	"log/slog"
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

// Store is the order persistence interface used by the service.
type Store interface {
	// InsertAccepted creates the order in ACCEPTED, or returns the existing
	// order for the application when one was already created. The bool
	// reports whether a new row was inserted.
	InsertAccepted(ctx context.Context, tx pgx.Tx, app *models.JobApplication) (*models.Order, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Order, error)
	SetAccepted(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error
	SetStarted(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error
	SetCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error
	SetCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// ApplicationLookup locks and reads the source application during order creation.
type ApplicationLookup interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.JobApplication, error)
}

// JobLookup resolves the job behind an order (ownership, rate).
type JobLookup interface {
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
}

// EarningSettler writes the settlement record inside the completion
// transaction.
type EarningSettler interface {
	SettleTx(ctx context.Context, tx pgx.Tx, order *models.Order, job *models.Job) (*models.Earning, error)
}

type Service struct {
	db                 TxBeginner
	store              Store
	apps               ApplicationLookup
	jobs               JobLookup
	earnings           EarningSettler
	insertNotification notify.InsertTxFunc
	log                *slog.Logger
}

func NewService(db TxBeginner, store Store, apps ApplicationLookup, jobs JobLookup, earnings EarningSettler, insertNotification notify.InsertTxFunc, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:                 db,
		store:              store,
		apps:               apps,
		jobs:               jobs,
		earnings:           earnings,
		insertNotification: insertNotification,
		log:                log,
	}
}

// CreateFromApplication converts an APPROVED application into an order. The
// order is born ACCEPTED with accepted_date set. Repeated calls for the same
// application return the existing order unchanged; the unique constraint on
// job_application_id makes this hold even when two creates race.
func (s *Service) CreateFromApplication(ctx context.Context, applicationID, customerID uuid.UUID) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	app, err := s.apps.GetByIDForUpdate(ctx, tx, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if job.CustomerID != customerID {
		return nil, apperr.Unauthorized("caller does not own the job")
	}
	if app.Status != models.ApplicationStatusApproved {
		return nil, apperr.InvalidState("application is not approved", app.Status)
	}

	order, created, err := s.store.InsertAccepted(ctx, tx, app)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if created {
		metrics.OrdersCreated.Inc()
		s.log.Info("order created", "order_id", order.ID, "application_id", app.ID)
	}
	return order, nil
}

// Accept moves a PENDING order to ACCEPTED. Orders created through
// CreateFromApplication are already ACCEPTED, so this path only applies to
// orders seeded in PENDING.
func (s *Service) Accept(ctx context.Context, orderID, customerID uuid.UUID) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := s.store.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, order.JobID)
	if err != nil {
		return nil, err
	}
	if job.CustomerID != customerID {
		return nil, apperr.Unauthorized("caller does not own the job")
	}
	if order.Status != models.OrderStatusPending {
		return nil, apperr.InvalidState("only a pending order can be accepted", order.Status)
	}

	now := time.Now().UTC()
	if err := s.store.SetAccepted(ctx, tx, order.ID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusAccepted
	order.AcceptedDate = now
	return order, nil
}

// Start marks the order as begun. Only the assigned worker may start, only
// from ACCEPTED, and only once.
func (s *Service) Start(ctx context.Context, orderID, workerID uuid.UUID) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := s.store.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.WorkerID != workerID {
		return nil, apperr.Unauthorized("caller is not the assigned worker")
	}
	if order.Status != models.OrderStatusAccepted {
		return nil, apperr.InvalidState("only an accepted order can be started", order.Status)
	}
	if order.StartedDate != nil {
		return nil, apperr.InvalidState("order has already been started", order.Status)
	}

	now := time.Now().UTC()
	if err := s.store.SetStarted(ctx, tx, order.ID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersStarted.Inc()
	order.StartedDate = &now
	return order, nil
}

// Complete finishes a started order. The status change, the earning
// settlement and the notification enqueue commit or roll back together.
func (s *Service) Complete(ctx context.Context, orderID, workerID uuid.UUID) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := s.store.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.WorkerID != workerID {
		return nil, apperr.Unauthorized("caller is not the assigned worker")
	}
	if order.Status != models.OrderStatusAccepted {
		return nil, apperr.InvalidState("only an accepted order can be completed", order.Status)
	}
	if order.StartedDate == nil {
		return nil, apperr.InvalidState("order has not been started", order.Status)
	}

	job, err := s.jobs.GetByID(ctx, order.JobID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.store.SetCompleted(ctx, tx, order.ID, now); err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCompleted
	order.CompletedDate = &now
	earning, err := s.earnings.SettleTx(ctx, tx, order, job)
	if err != nil {
		return nil, err
	}
	if err := s.insertNotification(ctx, tx, notify.NotificationArgs{
		Event:       notify.EventOrderCompleted,
		RecipientID: order.WorkerID,
		ActorID:     workerID,
		JobID:       &order.JobID,
		OrderID:     &order.ID,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersCompleted.Inc()
	s.log.Info("order completed",
		"order_id", order.ID,
		"earning_id", earning.ID,
		"amount_cents", earning.AmountCents)
	return order, nil
}

// Cancel terminates any non-terminal order. There is no public route yet;
// this backs administrative tooling and dispute resolution.
func (s *Service) Cancel(ctx context.Context, orderID, actorID uuid.UUID) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order, err := s.store.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, order.JobID)
	if err != nil {
		return nil, err
	}
	if actorID != order.WorkerID && actorID != job.CustomerID {
		return nil, apperr.Unauthorized("caller is not a party to the order")
	}
	if order.Terminal() {
		return nil, apperr.InvalidState("order is already finished", order.Status)
	}

	if err := s.store.SetCancelled(ctx, tx, order.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()
	order.Status = models.OrderStatusCancelled
	return order, nil
}

// Get returns the order to its worker or to the job's customer.
func (s *Service) Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID == order.WorkerID {
		return order, nil
	}
	job, err := s.jobs.GetByID(ctx, order.JobID)
	if err != nil {
		return nil, err
	}
	if userID != job.CustomerID {
		return nil, apperr.Unauthorized("caller is not a party to the order")
	}
	return order, nil
}
