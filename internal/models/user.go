package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleWorker   = "worker"
	RoleCustomer = "customer"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}
