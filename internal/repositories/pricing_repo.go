package repositories

import (
	"context"

	"socialai/internal/models"
)

// PricingRepository holds platform-wide plan overrides. Rows are not tenant
// owned, so no Scope is taken.
type PricingRepository interface {
	List(ctx context.Context) ([]*models.PricingConfig, error)
	Upsert(ctx context.Context, cfg *models.PricingConfig) error
	DeleteAll(ctx context.Context) (int64, error)
}

type pricingRepo struct {
	db DBTX
}

func NewPricingRepo(db DBTX) PricingRepository {
	return &pricingRepo{db: db}
}

func (r *pricingRepo) List(ctx context.Context) ([]*models.PricingConfig, error) {
	query := `
		SELECT plan_id, name, description, monthly_price, currency, features, updated_at
		FROM pricing_configs
		ORDER BY monthly_price ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := []*models.PricingConfig{}
	for rows.Next() {
		cfg := &models.PricingConfig{}
		if err := rows.Scan(&cfg.PlanID, &cfg.Name, &cfg.Description, &cfg.MonthlyPrice, &cfg.Currency, &cfg.Features, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (r *pricingRepo) Upsert(ctx context.Context, cfg *models.PricingConfig) error {
	query := `
		INSERT INTO pricing_configs (plan_id, name, description, monthly_price, currency, features, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (plan_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			monthly_price = EXCLUDED.monthly_price,
			currency = EXCLUDED.currency,
			features = EXCLUDED.features,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, cfg.PlanID, cfg.Name, cfg.Description, cfg.MonthlyPrice, cfg.Currency, cfg.Features)
	return err
}

func (r *pricingRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM pricing_configs`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
