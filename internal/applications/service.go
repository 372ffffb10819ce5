// Package applications implements the application registry: a worker's
// intent to perform a job, decided by the customer or withdrawn by the
// worker. At most one non-withdrawn application exists per (worker, job).
package applications

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/metrics"
	"github.com/gigline/backend/internal/models"
	"github.com/gigline/backend/internal/notify"
)

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store is the application persistence interface used by the service.
type Store interface {
	Insert(ctx context.Context, jobID, workerID uuid.UUID) (*models.JobApplication, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.JobApplication, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.JobApplication, error)
}

// JobLookup resolves the job an application points at (ownership, openness).
type JobLookup interface {
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
}

type Service struct {
	db                 TxBeginner
	store              Store
	jobs               JobLookup
	insertNotification notify.InsertTxFunc
	log                *slog.Logger
}

func NewService(db TxBeginner, store Store, jobs JobLookup, insertNotification notify.InsertTxFunc, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, store: store, jobs: jobs, insertNotification: insertNotification, log: log}
}

// Submit creates a PENDING application for (worker, job). The partial unique
// index on live applications turns a duplicate submit into a Conflict even
// when two submits race.
func (s *Service) Submit(ctx context.Context, workerID, jobID uuid.UUID) (*models.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperr.InvalidState("job is not open for applications", job.Status)
	}
	app, err := s.store.Insert(ctx, jobID, workerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("an active application already exists for this job")
		}
		return nil, err
	}
	metrics.ApplicationsSubmitted.Inc()
	return app, nil
}

// Decide approves or rejects a PENDING application. Only the job's customer
// may decide. The decision notification is enqueued in the same transaction.
func (s *Service) Decide(ctx context.Context, applicationID, customerID uuid.UUID, decision string) (*models.JobApplication, error) {
	if decision != models.ApplicationStatusApproved && decision != models.ApplicationStatusRejected {
		return nil, apperr.Validation("status must be APPROVED or REJECTED")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	app, err := s.store.GetByIDForUpdate(ctx, tx, applicationID)
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
	if app.Status != models.ApplicationStatusPending {
		return nil, apperr.InvalidState("application has already been decided", app.Status)
	}

	if err := s.store.UpdateStatus(ctx, tx, app.ID, decision); err != nil {
		return nil, err
	}
	if err := s.insertNotification(ctx, tx, notify.NotificationArgs{
		Event:         notify.EventApplicationDecided,
		RecipientID:   app.WorkerID,
		ActorID:       customerID,
		JobID:         &app.JobID,
		ApplicationID: &app.ID,
		Detail:        decision,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.ApplicationsDecided.WithLabelValues(decision).Inc()
	app.Status = decision
	return app, nil
}

// ListForWorker returns the worker's applications newest first.
func (s *Service) ListForWorker(ctx context.Context, workerID uuid.UUID) ([]*models.JobApplication, error) {
	list, err := s.store.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.JobApplication{}
	}
	return list, nil
}

// Withdraw flags the application WITHDRAWN. Only the applicant may withdraw;
// the row is kept so history survives while the unique index frees the slot.
func (s *Service) Withdraw(ctx context.Context, applicationID, workerID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	app, err := s.store.GetByIDForUpdate(ctx, tx, applicationID)
	if err != nil {
		return err
	}
	if app.WorkerID != workerID {
		return apperr.Unauthorized("caller is not the applicant")
	}
	if app.Status == models.ApplicationStatusWithdrawn {
		return apperr.InvalidState("application already withdrawn", app.Status)
	}

	if err := s.store.UpdateStatus(ctx, tx, app.ID, models.ApplicationStatusWithdrawn); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
