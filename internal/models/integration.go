package models

import (
	"time"

	"github.com/google/uuid"
)

type Provider string

const (
	ProviderGoogleDrive Provider = "GOOGLE_DRIVE"
	ProviderLinkedIn    Provider = "LINKEDIN"
)

// CloudStorageIntegration is a tenant's stored OAuth grant for one provider.
type CloudStorageIntegration struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Provider     Provider   `json:"provider" db:"provider"`
	AccessToken  string     `json:"-" db:"access_token"`
	RefreshToken *string    `json:"-" db:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at" db:"expires_at"`
	AccountEmail *string    `json:"account_email" db:"account_email"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
