package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)

// Job is a posted task with a flat hourly rate. The customer who posted it
// owns every application and order derived from it.
type Job struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Location        string    `json:"location"`
	HourlyRateCents int64     `json:"hourly_rate_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
