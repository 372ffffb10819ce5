package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectOrder = `
	SELECT id, job_application_id, job_id, worker_id, status,
	       accepted_date, started_date, completed_date, updated_at
	FROM orders`

// InsertAccepted relies on the unique constraint on job_application_id: a
// concurrent create loses the insert and falls through to reading the row
// the winner wrote.
func (r *Repository) InsertAccepted(ctx context.Context, tx pgx.Tx, app *models.JobApplication) (*models.Order, bool, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO orders (job_application_id, job_id, worker_id, status)
		VALUES ($1, $2, $3, 'ACCEPTED')
		ON CONFLICT (job_application_id) DO NOTHING
		RETURNING id, job_application_id, job_id, worker_id, status,
		          accepted_date, started_date, completed_date, updated_at
	`, app.ID, app.JobID, app.WorkerID)

	order, err := scanOrder(row)
	if err == nil {
		return order, true, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, false, err
	}

	existing, err := scanOrder(tx.QueryRow(ctx, selectOrder+` WHERE job_application_id = $1`, app.ID))
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, selectOrder+` WHERE id = $1`, id))
}

// GetByIDForUpdate locks the order row for the duration of the caller's
// transaction.
func (r *Repository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Order, error) {
	return scanOrder(tx.QueryRow(ctx, selectOrder+` WHERE id = $1 FOR UPDATE`, id))
}

func (r *Repository) SetAccepted(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders SET status = 'ACCEPTED', accepted_date = $1, updated_at = now() WHERE id = $2
	`, at, id)
	return err
}

func (r *Repository) SetStarted(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders SET started_date = $1, updated_at = now() WHERE id = $2
	`, at, id)
	return err
}

func (r *Repository) SetCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, at time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders SET status = 'COMPLETED', completed_date = $1, updated_at = now() WHERE id = $2
	`, at, id)
	return err
}

func (r *Repository) SetCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE orders SET status = 'CANCELLED', updated_at = now() WHERE id = $1
	`, id)
	return err
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.JobApplicationID, &o.JobID, &o.WorkerID, &o.Status,
		&o.AcceptedDate, &o.StartedDate, &o.CompletedDate, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order")
		}
		return nil, err
	}
	return &o, nil
}
