package services

import (
	"context"
	"errors"
	"fmt"

	"socialai/internal/common"
	"socialai/internal/models"
	"socialai/internal/repositories"
)

const DefaultTenantPage = 50

// ListTenantsQuery pages through every tenant on the platform.
type ListTenantsQuery struct {
	Limit  int `query:"limit" json:"limit" validate:"gte=0,max=200"`
	Offset int `query:"offset" json:"offset" validate:"gte=0"`
}

type TenantService interface {
	// ActingTenant loads the principal's own tenant.
	ActingTenant(ctx context.Context, p *models.Principal) (*models.Tenant, error)
	// ListAll is SUPER_ADMIN only; newest tenants first.
	ListAll(ctx context.Context, p *models.Principal, q ListTenantsQuery) ([]*models.Tenant, error)
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
}

func NewTenantService(tenantRepo repositories.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

func (s *tenantService) ActingTenant(ctx context.Context, p *models.Principal) (*models.Tenant, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return nil, err
	}
	tenantID, _ := scope.TenantID()
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNoTenant
	}
	return tenant, err
}

func (s *tenantService) ListAll(ctx context.Context, p *models.Principal, q ListTenantsQuery) ([]*models.Tenant, error) {
	if _, err := repositories.CrossTenant(p); err != nil {
		return nil, err
	}
	if err := common.ValidateStruct(q); err != nil {
		return nil, err
	}
	if q.Limit == 0 {
		q.Limit = DefaultTenantPage
	}
	tenants, err := s.tenantRepo.List(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}
