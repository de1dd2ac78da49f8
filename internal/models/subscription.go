package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	TenantID             uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	PlanID               string     `json:"plan_id" db:"plan_id"`
	Status               string     `json:"status" db:"status"`
	StripeCustomerID     *string    `json:"stripe_customer_id" db:"stripe_customer_id"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id" db:"stripe_subscription_id"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end" db:"current_period_end"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// SubscriptionWithTenant is the platform-wide view used by super admins.
type SubscriptionWithTenant struct {
	Subscription
	TenantName string `json:"tenant_name"`
}
