package services

import (
	"context"

	"socialai/internal/models"
	"socialai/internal/repositories"
)

// SubscriptionService is the platform operator's view of billing state.
type SubscriptionService interface {
	ListAll(ctx context.Context, p *models.Principal) ([]*models.SubscriptionWithTenant, error)
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
}

func NewSubscriptionService(subscriptionRepo repositories.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{subscriptionRepo: subscriptionRepo}
}

func (s *subscriptionService) ListAll(ctx context.Context, p *models.Principal) ([]*models.SubscriptionWithTenant, error) {
	scope, err := repositories.CrossTenant(p)
	if err != nil {
		return nil, err
	}
	return s.subscriptionRepo.ListWithTenants(ctx, scope)
}
