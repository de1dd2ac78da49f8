package repositories

import (
	"context"

	"socialai/internal/models"
)

type IntegrationRepository interface {
	// Upsert stores the grant for (scope tenant, provider), replacing any prior one.
	Upsert(ctx context.Context, scope Scope, integration *models.CloudStorageIntegration) error
	Get(ctx context.Context, scope Scope, provider models.Provider) (*models.CloudStorageIntegration, error)
	// Delete returns the number of rows removed; zero is not an error.
	Delete(ctx context.Context, scope Scope, provider models.Provider) (int64, error)
}

type integrationRepo struct {
	db DBTX
}

func NewIntegrationRepo(db DBTX) IntegrationRepository {
	return &integrationRepo{db: db}
}

func (r *integrationRepo) Upsert(ctx context.Context, scope Scope, in *models.CloudStorageIntegration) error {
	tenantID, ok := scope.TenantID()
	if !ok {
		return errUnboundScope
	}
	in.TenantID = tenantID

	query := `
		INSERT INTO cloud_storage_integrations (id, tenant_id, provider, access_token, refresh_token, expires_at, account_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (tenant_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(EXCLUDED.refresh_token, cloud_storage_integrations.refresh_token),
			expires_at = EXCLUDED.expires_at,
			account_email = EXCLUDED.account_email,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, in.ID, in.TenantID, in.Provider, in.AccessToken, in.RefreshToken, in.ExpiresAt, in.AccountEmail)
	return err
}

func (r *integrationRepo) Get(ctx context.Context, scope Scope, provider models.Provider) (*models.CloudStorageIntegration, error) {
	if scope.IsCrossTenant() {
		return nil, errUnboundScope
	}
	where, args, err := scope.Where("", Eq("provider", provider))
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, tenant_id, provider, access_token, refresh_token, expires_at, account_email, created_at, updated_at
		FROM cloud_storage_integrations ` + where
	in := &models.CloudStorageIntegration{}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&in.ID, &in.TenantID, &in.Provider, &in.AccessToken, &in.RefreshToken, &in.ExpiresAt, &in.AccountEmail, &in.CreatedAt, &in.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return in, nil
}

func (r *integrationRepo) Delete(ctx context.Context, scope Scope, provider models.Provider) (int64, error) {
	if scope.IsCrossTenant() {
		return 0, errUnboundScope
	}
	where, args, err := scope.Where("", Eq("provider", provider))
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM cloud_storage_integrations `+where, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
