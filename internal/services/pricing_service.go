package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"socialai/internal/caching"
	"socialai/internal/common"
	"socialai/internal/models"
	"socialai/internal/repositories"

	"go.uber.org/zap"
)

const pricingCacheTTL = 5 * time.Minute

// DefaultPlans is what the pricing page shows when no override exists.
var DefaultPlans = []models.PricingPlan{
	{
		ID:           "starter",
		Name:         "Starter",
		Description:  "One brand, the essentials for getting started",
		MonthlyPrice: 29,
		Currency:     "USD",
		Features:     []string{"1 LinkedIn account", "Google Drive media library", "30 scheduled posts per month", "Email support"},
	},
	{
		ID:           "professional",
		Name:         "Professional",
		Description:  "Growing teams publishing every day",
		MonthlyPrice: 79,
		Currency:     "USD",
		Features:     []string{"5 social accounts", "Unlimited scheduled posts", "AI caption suggestions", "Team invitations", "Priority support"},
	},
	{
		ID:           "enterprise",
		Name:         "Enterprise",
		Description:  "Agencies managing many brands",
		MonthlyPrice: 199,
		Currency:     "USD",
		Features:     []string{"Unlimited social accounts", "Unlimited team members", "Dedicated success manager", "SLA"},
	},
}

type UpdatePlanRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Description  string   `json:"description" validate:"max=1000"`
	MonthlyPrice float64  `json:"monthly_price" validate:"gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3,alpha"`
	Features     []string `json:"features" validate:"max=50,dive,max=200"`
}

type PricingService interface {
	GetPlans(ctx context.Context) ([]models.PricingPlan, error)
	UpdatePlan(ctx context.Context, p *models.Principal, planID string, req UpdatePlanRequest) (*models.PricingPlan, error)
	// Reset removes every override; returns the number of rows removed.
	Reset(ctx context.Context, p *models.Principal) (int64, error)
}

type pricingService struct {
	pricingRepo repositories.PricingRepository
	cache       caching.CacheService
	log         *zap.Logger
}

func NewPricingService(pricingRepo repositories.PricingRepository, cache caching.CacheService, log *zap.Logger) PricingService {
	return &pricingService{pricingRepo: pricingRepo, cache: cache, log: log}
}

func (s *pricingService) GetPlans(ctx context.Context) ([]models.PricingPlan, error) {
	if cached, err := s.cache.GetPricing(ctx); err != nil {
		s.log.Warn("pricing cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	configs, err := s.pricingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pricing configs: %w", err)
	}
	plans := mergePlans(DefaultPlans, configs)

	if err := s.cache.SetPricing(ctx, plans, pricingCacheTTL); err != nil {
		s.log.Warn("pricing cache write failed", zap.Error(err))
	}
	return plans, nil
}

// mergePlans overlays custom configs on the defaults, keeping default order
// and appending configs for plan ids the defaults do not know.
func mergePlans(defaults []models.PricingPlan, configs []*models.PricingConfig) []models.PricingPlan {
	byID := make(map[string]*models.PricingConfig, len(configs))
	for _, cfg := range configs {
		byID[cfg.PlanID] = cfg
	}

	plans := make([]models.PricingPlan, 0, len(defaults)+len(configs))
	for _, d := range defaults {
		if cfg, ok := byID[d.ID]; ok {
			plans = append(plans, planFromConfig(cfg))
			delete(byID, d.ID)
			continue
		}
		plans = append(plans, d)
	}
	for _, cfg := range configs {
		if _, ok := byID[cfg.PlanID]; ok {
			plans = append(plans, planFromConfig(cfg))
		}
	}
	return plans
}

func planFromConfig(cfg *models.PricingConfig) models.PricingPlan {
	return models.PricingPlan{
		ID:           cfg.PlanID,
		Name:         cfg.Name,
		Description:  cfg.Description,
		MonthlyPrice: cfg.MonthlyPrice,
		Currency:     cfg.Currency,
		Features:     cfg.Features,
		Custom:       true,
	}
}

func (s *pricingService) UpdatePlan(ctx context.Context, p *models.Principal, planID string, req UpdatePlanRequest) (*models.PricingPlan, error) {
	if _, err := repositories.CrossTenant(p); err != nil {
		return nil, err
	}

	planID = strings.ToLower(strings.TrimSpace(planID))
	if planID == "" {
		return nil, fmt.Errorf("%w: plan id is required", models.ErrInvalidInput)
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	features := req.Features
	if features == nil {
		features = []string{}
	}

	cfg := &models.PricingConfig{
		PlanID:       planID,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		MonthlyPrice: req.MonthlyPrice,
		Currency:     currency,
		Features:     features,
	}
	if err := s.pricingRepo.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("upsert pricing config: %w", err)
	}
	s.invalidate(ctx)

	plan := planFromConfig(cfg)
	return &plan, nil
}

func (s *pricingService) Reset(ctx context.Context, p *models.Principal) (int64, error) {
	if _, err := repositories.CrossTenant(p); err != nil {
		return 0, err
	}
	n, err := s.pricingRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete pricing configs: %w", err)
	}
	s.invalidate(ctx)
	s.log.Info("pricing reset to defaults", zap.String("actor_id", p.ID.String()), zap.Int64("removed", n))
	return n, nil
}

func (s *pricingService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePricing(ctx); err != nil {
		s.log.Warn("pricing cache invalidation failed", zap.Error(err))
	}
}
