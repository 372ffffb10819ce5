package auth

import (
	"context"

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

// Create inserts a new user and returns it.
func (r *Repository) Create(ctx context.Context, email, passwordHash, displayName, role string) (*models.User, error) {
	u := models.User{Email: email, DisplayName: displayName, Role: role}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, email, passwordHash, displayName, role)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user and password hash for login. Returns nil if not found.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var passwordHash string
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, display_name, role, password_hash, created_at
		FROM users WHERE email = $1
	`, email)
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &passwordHash, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, passwordHash, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, display_name, role, created_at
		FROM users WHERE id = $1
	`, id)
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
