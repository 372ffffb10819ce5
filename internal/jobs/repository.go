package jobs

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

func (r *Repository) Create(ctx context.Context, customerID uuid.UUID, title, description, category, location string, hourlyRateCents int64) (*models.Job, error) {
	var j models.Job
	row := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (customer_id, title, description, category, location, hourly_rate_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'OPEN')
		RETURNING id, customer_id, title, description, category, location, hourly_rate_cents, status, created_at
	`, customerID, title, description, category, location, hourlyRateCents)
	err := row.Scan(&j.ID, &j.CustomerID, &j.Title, &j.Description, &j.Category, &j.Location, &j.HourlyRateCents, &j.Status, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repository) GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var j models.Job
	row := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, title, description, category, location, hourly_rate_cents, status, created_at
		FROM jobs WHERE id = $1
	`, jobID)
	err := row.Scan(&j.ID, &j.CustomerID, &j.Title, &j.Description, &j.Category, &j.Location, &j.HourlyRateCents, &j.Status, &j.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("job")
		}
		return nil, err
	}
	return &j, nil
}

func (r *Repository) ListByStatus(ctx context.Context, status string) ([]*models.Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, title, description, category, location, hourly_rate_cents, status, created_at
		FROM jobs WHERE status = $1 ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, title, description, category, location, hourly_rate_cents, status, created_at
		FROM jobs WHERE customer_id = $1 ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJobs(rows pgx.Rows) ([]*models.Job, error) {
	var list []*models.Job
	for rows.Next() {
		var j models.Job
		err := rows.Scan(&j.ID, &j.CustomerID, &j.Title, &j.Description, &j.Category, &j.Location, &j.HourlyRateCents, &j.Status, &j.CreatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, &j)
	}
	return list, rows.Err()
}
