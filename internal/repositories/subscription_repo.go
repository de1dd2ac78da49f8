package repositories

import (
	"context"

	"socialai/internal/models"
)

type SubscriptionRepository interface {
	// ListWithTenants returns subscriptions joined with their tenant's name.
	// A cross-tenant scope yields every tenant's rows.
	ListWithTenants(ctx context.Context, scope Scope) ([]*models.SubscriptionWithTenant, error)
}

type subscriptionRepo struct {
	db DBTX
}

func NewSubscriptionRepo(db DBTX) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) ListWithTenants(ctx context.Context, scope Scope) ([]*models.SubscriptionWithTenant, error) {
	where, args, err := scope.Where("s.")
	if err != nil {
		return nil, err
	}
	query := `
		SELECT s.id, s.tenant_id, s.plan_id, s.status, s.stripe_customer_id, s.stripe_subscription_id,
		       s.current_period_end, s.created_at, s.updated_at, t.name
		FROM subscriptions s
		JOIN tenants t ON t.id = s.tenant_id
		` + where + `
		ORDER BY s.created_at DESC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []*models.SubscriptionWithTenant{}
	for rows.Next() {
		sub := &models.SubscriptionWithTenant{}
		if err := rows.Scan(
			&sub.ID, &sub.TenantID, &sub.PlanID, &sub.Status, &sub.StripeCustomerID, &sub.StripeSubscriptionID,
			&sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt, &sub.TenantName,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
