package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     *uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Email        string     `json:"email" db:"email"`
	Name         *string    `json:"name" db:"name"`
	Role         Role       `json:"role" db:"role"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Principal derives the request identity from a stored user.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}
