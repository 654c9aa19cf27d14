package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated CRM operator; contacts are owned through created_by.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
