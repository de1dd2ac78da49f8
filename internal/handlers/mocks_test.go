package handlers

import (
	"context"

	"socialai/internal/models"
	"socialai/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, models.SessionToken, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, models.SessionToken{}, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(models.SessionToken), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, rawToken string) error {
	return m.Called(ctx, rawToken).Error(0)
}

type MockTenantService struct{ mock.Mock }

func (m *MockTenantService) ActingTenant(ctx context.Context, p *models.Principal) (*models.Tenant, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) ListAll(ctx context.Context, p *models.Principal, q services.ListTenantsQuery) ([]*models.Tenant, error) {
	args := m.Called(ctx, p, q)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockTeamService struct{ mock.Mock }

func (m *MockTeamService) ListMembers(ctx context.Context, p *models.Principal) ([]*models.User, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockTeamService) ListInvitations(ctx context.Context, p *models.Principal) ([]*models.Invitation, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*models.Invitation), args.Error(1)
}

func (m *MockTeamService) CreateInvitation(ctx context.Context, p *models.Principal, req services.CreateInvitationRequest) (*models.Invitation, string, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Invitation), args.String(1), args.Error(2)
}

func (m *MockTeamService) CancelInvitation(ctx context.Context, p *models.Principal, id uuid.UUID) error {
	return m.Called(ctx, p, id).Error(0)
}

func (m *MockTeamService) AcceptInvitation(ctx context.Context, req services.AcceptInvitationRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPricingService struct{ mock.Mock }

func (m *MockPricingService) GetPlans(ctx context.Context) ([]models.PricingPlan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.PricingPlan), args.Error(1)
}

func (m *MockPricingService) UpdatePlan(ctx context.Context, p *models.Principal, planID string, req services.UpdatePlanRequest) (*models.PricingPlan, error) {
	args := m.Called(ctx, p, planID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingPlan), args.Error(1)
}

func (m *MockPricingService) Reset(ctx context.Context, p *models.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

type MockMediaService struct{ mock.Mock }

func (m *MockMediaService) ListRecent(ctx context.Context, p *models.Principal, limit int) ([]*models.DriveMedia, error) {
	args := m.Called(ctx, p, limit)
	return args.Get(0).([]*models.DriveMedia), args.Error(1)
}

type MockGoogleDriveService struct{ mock.Mock }

func (m *MockGoogleDriveService) AuthURL(ctx context.Context, p *models.Principal) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleDriveService) HandleCallback(ctx context.Context, code, state string) (uuid.UUID, error) {
	args := m.Called(ctx, code, state)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockGoogleDriveService) Disconnect(ctx context.Context, p *models.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

type MockLinkedInService struct{ mock.Mock }

func (m *MockLinkedInService) AuthURL(ctx context.Context, p *models.Principal) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockLinkedInService) HandleCallback(ctx context.Context, code, state string) (uuid.UUID, error) {
	args := m.Called(ctx, code, state)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockLinkedInService) TestConnection(ctx context.Context, p *models.Principal) (*services.LinkedInProfile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LinkedInProfile), args.Error(1)
}

func (m *MockLinkedInService) Publish(ctx context.Context, tenantID uuid.UUID, text string) (string, error) {
	args := m.Called(ctx, tenantID, text)
	return args.String(0), args.Error(1)
}

type MockStripeService struct{ mock.Mock }

func (m *MockStripeService) TestConnection(ctx context.Context) (*services.StripeAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StripeAccount), args.Error(1)
}

type MockSubscriptionService struct{ mock.Mock }

func (m *MockSubscriptionService) ListAll(ctx context.Context, p *models.Principal) ([]*models.SubscriptionWithTenant, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*models.SubscriptionWithTenant), args.Error(1)
}
