package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is the customer's one-time rating of a completed order. The worker
// may attach exactly one reply; worker_reply goes from null to non-null at
// most once.
type Review struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     uuid.UUID  `json:"order_id"`
	ReviewerID  uuid.UUID  `json:"reviewer_id"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment"`
	CreatedAt   time.Time  `json:"created_at"`
	WorkerReply *string    `json:"worker_reply,omitempty"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
}
