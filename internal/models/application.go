package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationStatusPending   = "PENDING"
	ApplicationStatusApproved  = "APPROVED"
	ApplicationStatusRejected  = "REJECTED"
	ApplicationStatusWithdrawn = "WITHDRAWN"
)

// JobApplication records a worker's intent to perform a job. At most one
// non-withdrawn application may exist per (worker, job) pair; the partial
// unique index on job_applications enforces it.
type JobApplication struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	WorkerID    uuid.UUID `json:"worker_id"`
	Status      string    `json:"status"`
	AppliedDate time.Time `json:"applied_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}
