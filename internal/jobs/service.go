package jobs

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/models"
)

type Service interface {
	CreateJob(ctx context.Context, customerID uuid.UUID, title, desc, category, location string, hourlyRateCents int64) (*models.Job, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	ListOpen(ctx context.Context) ([]*models.Job, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Job, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) *service {
	return &service{repo: repo}
}

var _ Service = (*service)(nil)

func (s *service) CreateJob(ctx context.Context, customerID uuid.UUID, title, desc, category, location string, hourlyRateCents int64) (*models.Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if hourlyRateCents <= 0 {
		return nil, apperr.Validation("hourly_rate_cents must be > 0")
	}
	return s.repo.Create(ctx, customerID, title, desc, category, location, hourlyRateCents)
}

func (s *service) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return s.repo.GetByID(ctx, jobID)
}

func (s *service) ListOpen(ctx context.Context) ([]*models.Job, error) {
	return s.repo.ListByStatus(ctx, models.JobStatusOpen)
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Job, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
