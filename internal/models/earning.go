package models

import (
	"time"

	"github.com/google/uuid"
)

// EarningStatusCompleted is the only earning status; earnings are terminal
// facts from the moment they are written.
const EarningStatusCompleted = "COMPLETED"

// Earning is the immutable settlement record derived exactly once from a
// completed order. Amount is a flat copy of the job's hourly rate at
// settlement time and is never recomputed.
type Earning struct {
	ID               uuid.UUID `json:"id"`
	OrderID          uuid.UUID `json:"order_id"`
	JobApplicationID uuid.UUID `json:"job_application_id"`
	JobID            uuid.UUID `json:"job_id"`
	WorkerID         uuid.UUID `json:"worker_id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	AmountCents      int64     `json:"amount_cents"`
	EarnedDate       time.Time `json:"earned_date"`
	Status           string    `json:"status"`
	// Reserved for a future payment-gateway integration.
	PaymentGatewayID *string `json:"payment_gateway_id,omitempty"`
}
