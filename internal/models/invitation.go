package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
)

type Invitation struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Email     string     `json:"email" db:"email"`
	Role      Role       `json:"role" db:"role"`
	TokenHash string     `json:"-" db:"token_hash"`
	Status    string     `json:"status" db:"status"`
	InvitedBy *uuid.UUID `json:"invited_by" db:"invited_by"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
