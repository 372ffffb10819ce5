package applications

import (
	"context"

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

func (r *Repository) Insert(ctx context.Context, jobID, workerID uuid.UUID) (*models.JobApplication, error) {
	var a models.JobApplication
	row := r.pool.QueryRow(ctx, `
		INSERT INTO job_applications (job_id, worker_id, status)
		VALUES ($1, $2, 'PENDING')
		RETURNING id, job_id, worker_id, status, applied_date, updated_at
	`, jobID, workerID)
	err := row.Scan(&a.ID, &a.JobID, &a.WorkerID, &a.Status, &a.AppliedDate, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByIDForUpdate locks the application row for the duration of the
// caller's transaction.
func (r *Repository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.JobApplication, error) {
	return scanApplication(tx.QueryRow(ctx, selectApplication+` WHERE id = $1 FOR UPDATE`, id))
}

func (r *Repository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE job_applications SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	return err
}

func (r *Repository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.JobApplication, error) {
	rows, err := r.pool.Query(ctx, selectApplication+` WHERE worker_id = $1 ORDER BY applied_date DESC`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.JobApplication
	for rows.Next() {
		var a models.JobApplication
		if err := rows.Scan(&a.ID, &a.JobID, &a.WorkerID, &a.Status, &a.AppliedDate, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

const selectApplication = `
	SELECT id, job_id, worker_id, status, applied_date, updated_at
	FROM job_applications`

func scanApplication(row pgx.Row) (*models.JobApplication, error) {
	var a models.JobApplication
	if err := row.Scan(&a.ID, &a.JobID, &a.WorkerID, &a.Status, &a.AppliedDate, &a.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("application")
		}
		return nil, err
	}
	return &a, nil
}
