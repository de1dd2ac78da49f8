package services

import (
	"context"
	"time"

	"socialai/internal/models"
	"socialai/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct{ mock.Mock }

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, scope repositories.Scope) ([]*models.User, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockInvitationRepository struct{ mock.Mock }

func (m *MockInvitationRepository) Create(ctx context.Context, scope repositories.Scope, inv *models.Invitation) error {
	args := m.Called(ctx, scope, inv)
	if id, ok := scope.TenantID(); ok {
		inv.TenantID = id
	}
	return args.Error(0)
}

func (m *MockInvitationRepository) List(ctx context.Context, scope repositories.Scope, status string) ([]*models.Invitation, error) {
	args := m.Called(ctx, scope, status)
	return args.Get(0).([]*models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Delete(ctx context.Context, scope repositories.Scope, id uuid.UUID) error {
	return m.Called(ctx, scope, id).Error(0)
}

func (m *MockInvitationRepository) GetPendingByTokenHash(ctx context.Context, tokenHash string) (*models.Invitation, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Accept(ctx context.Context, scope repositories.Scope, id uuid.UUID, user *models.User) error {
	return m.Called(ctx, scope, id, user).Error(0)
}

type MockIntegrationRepository struct{ mock.Mock }

func (m *MockIntegrationRepository) Upsert(ctx context.Context, scope repositories.Scope, in *models.CloudStorageIntegration) error {
	return m.Called(ctx, scope, in).Error(0)
}

func (m *MockIntegrationRepository) Get(ctx context.Context, scope repositories.Scope, provider models.Provider) (*models.CloudStorageIntegration, error) {
	args := m.Called(ctx, scope, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CloudStorageIntegration), args.Error(1)
}

func (m *MockIntegrationRepository) Delete(ctx context.Context, scope repositories.Scope, provider models.Provider) (int64, error) {
	args := m.Called(ctx, scope, provider)
	return args.Get(0).(int64), args.Error(1)
}

type MockPricingRepository struct{ mock.Mock }

func (m *MockPricingRepository) List(ctx context.Context) ([]*models.PricingConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.PricingConfig), args.Error(1)
}

func (m *MockPricingRepository) Upsert(ctx context.Context, cfg *models.PricingConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockPricingRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockDriveMediaRepository struct{ mock.Mock }

func (m *MockDriveMediaRepository) ListRecent(ctx context.Context, scope repositories.Scope, limit int) ([]*models.DriveMedia, error) {
	args := m.Called(ctx, scope, limit)
	return args.Get(0).([]*models.DriveMedia), args.Error(1)
}

type MockSubscriptionRepository struct{ mock.Mock }

func (m *MockSubscriptionRepository) ListWithTenants(ctx context.Context, scope repositories.Scope) ([]*models.SubscriptionWithTenant, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]*models.SubscriptionWithTenant), args.Error(1)
}

type MockMinioService struct{ mock.Mock }

func (m *MockMinioService) PresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockMinioService) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockSessionIssuer struct{ mock.Mock }

func (m *MockSessionIssuer) Issue(p *models.Principal) (models.SessionToken, error) {
	args := m.Called(p)
	return args.Get(0).(models.SessionToken), args.Error(1)
}

func (m *MockSessionIssuer) Revoke(ctx context.Context, raw string) error {
	return m.Called(ctx, raw).Error(0)
}

func tenantPrincipal(role models.Role) *models.Principal {
	tenantID := uuid.New()
	return &models.Principal{ID: uuid.New(), Email: "member@acme.io", Role: role, TenantID: &tenantID}
}

func superAdmin() *models.Principal {
	return &models.Principal{ID: uuid.New(), Email: "root@platform.io", Role: models.RoleSuperAdmin}
}
