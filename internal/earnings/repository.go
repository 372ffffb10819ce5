package earnings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigline/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectEarning = `
	SELECT id, order_id, job_application_id, job_id, worker_id, customer_id,
	       amount_cents, earned_date, status, payment_gateway_id
	FROM earnings`

// InsertTx relies on the unique constraint on order_id: a losing concurrent
// settlement falls through to reading the row the winner wrote.
func (r *Repository) InsertTx(ctx context.Context, tx pgx.Tx, e *models.Earning) (*models.Earning, bool, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO earnings (order_id, job_application_id, job_id, worker_id, customer_id, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, order_id, job_application_id, job_id, worker_id, customer_id,
		          amount_cents, earned_date, status, payment_gateway_id
	`, e.OrderID, e.JobApplicationID, e.JobID, e.WorkerID, e.CustomerID, e.AmountCents, e.Status)

	inserted, err := scanEarning(row)
	if err == nil {
		return inserted, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := scanEarning(tx.QueryRow(ctx, selectEarning+` WHERE order_id = $1`, e.OrderID))
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Repository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Earning, error) {
	rows, err := r.pool.Query(ctx, selectEarning+` WHERE worker_id = $1 ORDER BY earned_date DESC`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Earning
	for rows.Next() {
		var e models.Earning
		err := rows.Scan(&e.ID, &e.OrderID, &e.JobApplicationID, &e.JobID, &e.WorkerID,
			&e.CustomerID, &e.AmountCents, &e.EarnedDate, &e.Status, &e.PaymentGatewayID)
		if err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func (r *Repository) SummaryByWorker(ctx context.Context, workerID uuid.UUID) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM earnings WHERE worker_id = $1
	`, workerID).Scan(&s.TotalCents, &s.Count)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanEarning(row pgx.Row) (*models.Earning, error) {
	var e models.Earning
	err := row.Scan(&e.ID, &e.OrderID, &e.JobApplicationID, &e.JobID, &e.WorkerID,
		&e.CustomerID, &e.AmountCents, &e.EarnedDate, &e.Status, &e.PaymentGatewayID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
