package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const selectReview = `
	SELECT id, order_id, reviewer_id, rating, comment, created_at, worker_reply, replied_at
	FROM reviews`

func (r *Repository) InsertTx(ctx context.Context, tx pgx.Tx, rv *models.Review) (*models.Review, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO reviews (order_id, reviewer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, reviewer_id, rating, comment, created_at, worker_reply, replied_at
	`, rv.OrderID, rv.ReviewerID, rv.Rating, rv.Comment)

	out, err := scanReview(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Conflict("a review already exists for this order")
		}
		return nil, err
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, selectReview+` WHERE id = $1`, id))
}

func (r *Repository) SetReply(ctx context.Context, id uuid.UUID, reply string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews SET worker_reply = $1, replied_at = $2
		WHERE id = $3 AND worker_reply IS NULL
	`, reply, at, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.OrderID, &rv.ReviewerID, &rv.Rating, &rv.Comment,
		&rv.CreatedAt, &rv.WorkerReply, &rv.RepliedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("review")
		}
		return nil, err
	}
	return &rv, nil
}
