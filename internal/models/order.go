package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusAccepted  = "ACCEPTED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Order is the tracked engagement created from an approved application.
// Transitions are monotonic: started_date is set only while ACCEPTED, and
// completed_date only once started_date already exists.
type Order struct {
	ID               uuid.UUID  `json:"id"`
	JobApplicationID uuid.UUID  `json:"job_application_id"`
	JobID            uuid.UUID  `json:"job_id"`
	WorkerID         uuid.UUID  `json:"worker_id"`
	Status           string     `json:"status"`
	AcceptedDate     time.Time  `json:"accepted_date"`
	StartedDate      *time.Time `json:"started_date,omitempty"`
	CompletedDate    *time.Time `json:"completed_date,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Terminal reports whether no further transition is legal from the
// order's current status.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
