package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"socialai/internal/common"
	"socialai/internal/middleware"
	"socialai/internal/models"
	"socialai/internal/services"
	"socialai/internal/session"
	"socialai/testhelpers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const testPublicURL = "https://app.example.com"

type HandlersTestSuite struct {
	suite.Suite
	e        *echo.Echo
	resolver *session.Resolver

	auth          *MockAuthService
	tenants       *MockTenantService
	team          *MockTeamService
	pricing       *MockPricingService
	media         *MockMediaService
	googleDrive   *MockGoogleDriveService
	linkedIn      *MockLinkedInService
	stripe        *MockStripeService
	subscriptions *MockSubscriptionService

	dbUp bool

	tenantA uuid.UUID
	tenantB uuid.UUID
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	resolver := testhelpers.NewResolver(s.T(), nil)
	s.resolver = resolver

	s.auth = new(MockAuthService)
	s.tenants = new(MockTenantService)
	s.team = new(MockTeamService)
	s.pricing = new(MockPricingService)
	s.media = new(MockMediaService)
	s.googleDrive = new(MockGoogleDriveService)
	s.linkedIn = new(MockLinkedInService)
	s.stripe = new(MockStripeService)
	s.subscriptions = new(MockSubscriptionService)
	s.dbUp = true
	s.tenantA = uuid.New()
	s.tenantB = uuid.New()

	db := PingFunc(func(context.Context) error {
		if !s.dbUp {
			return errors.New("connection refused")
		}
		return nil
	})

	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	e.Validator = common.NewRequestValidator()
	e.Use(middleware.SessionMiddleware(resolver))
	RegisterRoutes(e, &Handlers{
		Auth:         NewAuthHandlers(s.auth, resolver, false),
		Pricing:      NewPricingHandlers(s.pricing),
		Team:         NewTeamHandlers(s.team, s.tenants),
		Media:        NewMediaHandlers(s.media),
		Integrations: NewIntegrationHandlers(s.googleDrive, s.linkedIn, testPublicURL),
		SuperAdmin:   NewSuperAdminHandlers(s.pricing, s.stripe, s.subscriptions, s.tenants),
		Health:       NewHealthHandlers(db, nil, nil, "test"),
	}, middleware.NewRBACMiddleware(nil), middleware.NewAuditMiddleware(zap.NewNop()), "v1")
	s.e = e
}

func (s *HandlersTestSuite) TearDownTest() {
	s.auth.AssertExpectations(s.T())
	s.tenants.AssertExpectations(s.T())
	s.team.AssertExpectations(s.T())
	s.pricing.AssertExpectations(s.T())
	s.media.AssertExpectations(s.T())
	s.googleDrive.AssertExpectations(s.T())
	s.linkedIn.AssertExpectations(s.T())
	s.stripe.AssertExpectations(s.T())
	s.subscriptions.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) token(role models.Role, tenantID *uuid.UUID) string {
	return testhelpers.Token(s.T(), s.resolver, testhelpers.Principal(role, tenantID))
}

func (s *HandlersTestSuite) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *HandlersTestSuite) decode(rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func forTenant(id uuid.UUID) interface{} {
	return mock.MatchedBy(func(p *models.Principal) bool {
		return p != nil && p.TenantID != nil && *p.TenantID == id
	})
}

func (s *HandlersTestSuite) TestPricingIsPublic() {
	s.pricing.On("GetPlans", mock.Anything).Return(services.DefaultPlans, nil).Once()

	rec := s.do(http.MethodGet, "/api/pricing", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("v1", rec.Header().Get(middleware.APIVersionHeader))
	plans := s.decode(rec)["plans"].([]interface{})
	s.Len(plans, len(services.DefaultPlans))
}

func (s *HandlersTestSuite) TestTenantRoutesWithoutSessionAre401() {
	for _, path := range []string{"/api/team/members", "/api/team/invitations", "/api/drive-media", "/api/integrations/linkedin/test"} {
		rec := s.do(http.MethodGet, path, "", "")
		s.Equal(http.StatusUnauthorized, rec.Code, path)
		s.Equal("Unauthorized", s.decode(rec)["error"], path)
	}
	s.team.AssertNotCalled(s.T(), "ListMembers", mock.Anything, mock.Anything)
	s.media.AssertNotCalled(s.T(), "ListRecent", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestExpiredOrForgedTokenIs401() {
	forged := s.token(models.RoleTenantAdmin, &s.tenantA) + "x"
	rec := s.do(http.MethodGet, "/api/team/members", "", forged)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlersTestSuite) TestListMembersReturnsActingTenant() {
	tenant := &models.Tenant{ID: s.tenantA, Name: "Acme"}
	members := []*models.User{{ID: uuid.New(), TenantID: &s.tenantA, Email: "a@acme.test", Role: models.RoleUser}}
	s.tenants.On("ActingTenant", mock.Anything, forTenant(s.tenantA)).Return(tenant, nil).Once()
	s.team.On("ListMembers", mock.Anything, forTenant(s.tenantA)).Return(members, nil).Once()

	rec := s.do(http.MethodGet, "/api/team/members", "", s.token(models.RoleUser, &s.tenantA))
	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Len(body["members"], 1)
	s.Equal("Acme", body["tenant"].(map[string]interface{})["name"])
}

func (s *HandlersTestSuite) TestListMembersForSuperAdminWithoutTenantIs404() {
	s.tenants.On("ActingTenant", mock.Anything, mock.Anything).Return(nil, models.ErrNoTenant).Once()

	rec := s.do(http.MethodGet, "/api/team/members", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Tenant not found", s.decode(rec)["error"])
}

func (s *HandlersTestSuite) TestCreateInvitationAsUserIs403WithoutMutation() {
	rec := s.do(http.MethodPost, "/api/team/invitations", `{"email":"new@acme.test","role":"USER"}`, s.token(models.RoleUser, &s.tenantA))
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("Forbidden", s.decode(rec)["error"])
	s.team.AssertNotCalled(s.T(), "CreateInvitation", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestCreateInvitationAsTenantAdmin() {
	req := services.CreateInvitationRequest{Email: "new@acme.test", Role: models.RoleUser}
	inv := &models.Invitation{ID: uuid.New(), TenantID: s.tenantA, Email: req.Email, Role: req.Role, Status: models.InvitationPending}
	s.team.On("CreateInvitation", mock.Anything, forTenant(s.tenantA), req).Return(inv, "raw-token", nil).Once()

	rec := s.do(http.MethodPost, "/api/team/invitations", `{"email":"new@acme.test","role":"USER"}`, s.token(models.RoleTenantAdmin, &s.tenantA))
	s.Equal(http.StatusCreated, rec.Code)
	body := s.decode(rec)
	s.Equal("raw-token", body["token"])
	s.NotContains(rec.Body.String(), "token_hash")
}

func (s *HandlersTestSuite) TestCancelInvitationTwice() {
	id := uuid.New()
	s.team.On("CancelInvitation", mock.Anything, forTenant(s.tenantA), id).Return(nil).Once()
	s.team.On("CancelInvitation", mock.Anything, forTenant(s.tenantA), id).Return(models.ErrNotFound).Once()
	token := s.token(models.RoleTenantAdmin, &s.tenantA)

	first := s.do(http.MethodDelete, "/api/team/invitations/"+id.String(), "", token)
	s.Equal(http.StatusOK, first.Code)
	second := s.do(http.MethodDelete, "/api/team/invitations/"+id.String(), "", token)
	s.Equal(http.StatusNotFound, second.Code)
}

func (s *HandlersTestSuite) TestCancelInvitationRejectsBadID() {
	rec := s.do(http.MethodDelete, "/api/team/invitations/not-a-uuid", "", s.token(models.RoleTenantAdmin, &s.tenantA))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersTestSuite) TestAcceptInvitationIsPublic() {
	req := services.AcceptInvitationRequest{Token: "raw", Name: "Ann", Password: "correct horse"}
	user := &models.User{ID: uuid.New(), TenantID: &s.tenantA, Email: "ann@acme.test", Role: models.RoleUser}
	s.team.On("AcceptInvitation", mock.Anything, req).Return(user, nil).Once()

	rec := s.do(http.MethodPost, "/api/team/invitations/accept", `{"token":"raw","name":"Ann","password":"correct horse"}`, "")
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *HandlersTestSuite) TestCreateInvitationValidatesBody() {
	token := s.token(models.RoleTenantAdmin, &s.tenantA)

	rec := s.do(http.MethodPost, "/api/team/invitations", `{"email":"not-an-email","role":"USER"}`, token)
	s.Equal(http.StatusBadRequest, rec.Code)
	body := s.decode(rec)
	s.Equal("Invalid request", body["error"])
	s.Equal("email is invalid", body["details"])

	rec = s.do(http.MethodPost, "/api/team/invitations", `{"email":"new@acme.test","role":"SUPER_ADMIN"}`, token)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("role must be one of USER, TENANT_ADMIN", s.decode(rec)["details"])
	s.team.AssertNotCalled(s.T(), "CreateInvitation", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestAcceptInvitationRejectsShortPassword() {
	rec := s.do(http.MethodPost, "/api/team/invitations/accept", `{"token":"raw","password":"short"}`, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("password must be at least 8 characters", s.decode(rec)["details"])
	s.team.AssertNotCalled(s.T(), "AcceptInvitation", mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestDriveMediaDefaultsToCap() {
	s.media.On("ListRecent", mock.Anything, forTenant(s.tenantA), 100).Return([]*models.DriveMedia{{ID: uuid.New(), TenantID: s.tenantA, Name: "a.png"}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/drive-media", "", s.token(models.RoleUser, &s.tenantA))
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(1, s.decode(rec)["count"])
}

func (s *HandlersTestSuite) TestDriveMediaRejectsBadLimit() {
	rec := s.do(http.MethodGet, "/api/drive-media?limit=-3", "", s.token(models.RoleUser, &s.tenantA))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("limit must be a positive integer", s.decode(rec)["details"])
}

func (s *HandlersTestSuite) TestConnectGoogleDriveRedirects() {
	s.googleDrive.On("AuthURL", mock.Anything, forTenant(s.tenantA)).Return("https://accounts.google.com/o/oauth2/v2/auth?state=x", nil).Once()

	rec := s.do(http.MethodGet, "/api/integrations/google-drive/connect", "", s.token(models.RoleTenantAdmin, &s.tenantA))
	s.Equal(http.StatusFound, rec.Code)
	s.Equal("https://accounts.google.com/o/oauth2/v2/auth?state=x", rec.Header().Get(echo.HeaderLocation))
}

func (s *HandlersTestSuite) TestDisconnectGoogleDriveOnlyTouchesCallerTenant() {
	s.googleDrive.On("Disconnect", mock.Anything, forTenant(s.tenantA)).Return(int64(1), nil).Once()

	rec := s.do(http.MethodPost, "/api/integrations/google-drive/disconnect", "", s.token(models.RoleTenantAdmin, &s.tenantA))
	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal(true, body["success"])
	s.googleDrive.AssertNotCalled(s.T(), "Disconnect", mock.Anything, forTenant(s.tenantB))
}

func (s *HandlersTestSuite) TestDisconnectGoogleDriveAsUserIs403() {
	rec := s.do(http.MethodPost, "/api/integrations/google-drive/disconnect", "", s.token(models.RoleUser, &s.tenantA))
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlersTestSuite) TestGoogleDriveCallbackRedirectsToSettings() {
	s.googleDrive.On("HandleCallback", mock.Anything, "the-code", "the-state").Return(s.tenantA, nil).Once()

	rec := s.do(http.MethodGet, "/api/integrations/google-drive/callback?code=the-code&state=the-state", "", "")
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(testPublicURL+"/settings/integrations?connected=google-drive", rec.Header().Get(echo.HeaderLocation))
}

func (s *HandlersTestSuite) TestGoogleDriveCallbackWithoutCodeIs400() {
	rec := s.do(http.MethodGet, "/api/integrations/google-drive/callback?state=x", "", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersTestSuite) TestGoogleDriveCallbackWithReplayedStateIs400() {
	s.googleDrive.On("HandleCallback", mock.Anything, "c", "used").
		Return(uuid.Nil, fmt.Errorf("%w: state expired or already used", models.ErrInvalidInput)).Once()

	rec := s.do(http.MethodGet, "/api/integrations/google-drive/callback?code=c&state=used", "", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlersTestSuite) TestLinkedInAuthAnonymousRedirectsToLogin() {
	rec := s.do(http.MethodGet, "/api/integrations/linkedin/auth", "", "")
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(testPublicURL+"/login", rec.Header().Get(echo.HeaderLocation))
}

func (s *HandlersTestSuite) TestLinkedInCallbackDeniedRedirectsWithError() {
	rec := s.do(http.MethodGet, "/api/integrations/linkedin/callback?error=user_cancelled_login", "", "")
	s.Equal(http.StatusFound, rec.Code)
	s.Equal(testPublicURL+"/settings/integrations?error=user_cancelled_login", rec.Header().Get(echo.HeaderLocation))
}

func (s *HandlersTestSuite) TestLinkedInTestWithoutIntegrationIs404() {
	s.linkedIn.On("TestConnection", mock.Anything, forTenant(s.tenantA)).Return(nil, models.ErrNotFound).Once()

	rec := s.do(http.MethodGet, "/api/integrations/linkedin/test", "", s.token(models.RoleUser, &s.tenantA))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlersTestSuite) TestLinkedInTestUpstreamFailureCarriesDetails() {
	s.linkedIn.On("TestConnection", mock.Anything, forTenant(s.tenantA)).
		Return(nil, &models.UpstreamError{Provider: "linkedin", Status: 401, Message: "token revoked"}).Once()

	rec := s.do(http.MethodGet, "/api/integrations/linkedin/test", "", s.token(models.RoleUser, &s.tenantA))
	s.Equal(http.StatusInternalServerError, rec.Code)
	body := s.decode(rec)
	s.Equal("linkedin request failed", body["error"])
	s.Equal("token revoked", body["details"])
}

func (s *HandlersTestSuite) TestResetPricingAsSuperAdmin() {
	s.pricing.On("Reset", mock.Anything, mock.MatchedBy(func(p *models.Principal) bool { return p.IsSuperAdmin() })).
		Return(int64(2), nil).Once()

	rec := s.do(http.MethodPost, "/api/super-admin/pricing/reset", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("All pricing configurations reset to defaults successfully", body["message"])
	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	s.NoError(err)
}

func (s *HandlersTestSuite) TestResetPricingAsTenantAdminIs403WithoutMutation() {
	rec := s.do(http.MethodPost, "/api/super-admin/pricing/reset", "", s.token(models.RoleTenantAdmin, &s.tenantA))
	s.Equal(http.StatusForbidden, rec.Code)
	s.pricing.AssertNotCalled(s.T(), "Reset", mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestUpdatePricing() {
	req := services.UpdatePlanRequest{Name: "Starter", MonthlyPrice: 19, Currency: "USD"}
	plan := &models.PricingPlan{ID: "starter", Name: "Starter", MonthlyPrice: 19, Currency: "USD"}
	s.pricing.On("UpdatePlan", mock.Anything, mock.Anything, "starter", req).Return(plan, nil).Once()

	rec := s.do(http.MethodPut, "/api/super-admin/pricing/starter", `{"name":"Starter","monthly_price":19,"currency":"USD"}`, s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(19, s.decode(rec)["plan"].(map[string]interface{})["monthly_price"])
}

func (s *HandlersTestSuite) TestUpdatePricingRejectsNegativePrice() {
	rec := s.do(http.MethodPut, "/api/super-admin/pricing/starter", `{"name":"Starter","monthly_price":-5}`, s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("monthly_price must be greater than or equal to 0", s.decode(rec)["details"])
	s.pricing.AssertNotCalled(s.T(), "UpdatePlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestStripeMisconfiguredIs400() {
	s.stripe.On("TestConnection", mock.Anything).Return(nil, models.MisconfiguredError("STRIPE_SECRET_KEY")).Once()

	rec := s.do(http.MethodPost, "/api/super-admin/stripe/test", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusBadRequest, rec.Code)
	body := s.decode(rec)
	s.Equal("Misconfigured", body["error"])
	s.Equal("STRIPE_SECRET_KEY is not configured", body["details"])
}

func (s *HandlersTestSuite) TestStripeProviderErrorIs500WithDetails() {
	s.stripe.On("TestConnection", mock.Anything).
		Return(nil, &models.UpstreamError{Provider: "stripe", Status: 401, Message: "Invalid API Key provided"}).Once()

	rec := s.do(http.MethodPost, "/api/super-admin/stripe/test", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal("Invalid API Key provided", s.decode(rec)["details"])
}

func (s *HandlersTestSuite) TestStripeSuccess() {
	s.stripe.On("TestConnection", mock.Anything).Return(&services.StripeAccount{ID: "acct_123", Country: "US"}, nil).Once()

	rec := s.do(http.MethodPost, "/api/super-admin/stripe/test", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("acct_123", s.decode(rec)["accountId"])
}

func (s *HandlersTestSuite) TestSubscriptionsRequireSuperAdmin() {
	rec := s.do(http.MethodGet, "/api/super-admin/subscriptions", "", s.token(models.RoleTenantAdmin, &s.tenantA))
	s.Equal(http.StatusForbidden, rec.Code)

	subs := []*models.SubscriptionWithTenant{
		{Subscription: models.Subscription{ID: uuid.New(), TenantID: s.tenantA, PlanID: "starter"}, TenantName: "Acme"},
		{Subscription: models.Subscription{ID: uuid.New(), TenantID: s.tenantB, PlanID: "starter"}, TenantName: "Beta"},
	}
	s.subscriptions.On("ListAll", mock.Anything, mock.Anything).Return(subs, nil).Once()

	rec = s.do(http.MethodGet, "/api/super-admin/subscriptions", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(2, s.decode(rec)["count"])
}

func (s *HandlersTestSuite) TestListTenants() {
	rec := s.do(http.MethodGet, "/api/super-admin/tenants", "", s.token(models.RoleTenantAdmin, &s.tenantA))
	s.Equal(http.StatusForbidden, rec.Code)

	tenants := []*models.Tenant{{ID: s.tenantA, Name: "Acme"}, {ID: s.tenantB, Name: "Beta"}}
	s.tenants.On("ListAll", mock.Anything, mock.Anything, services.ListTenantsQuery{Limit: 10, Offset: 20}).Return(tenants, nil).Once()

	rec = s.do(http.MethodGet, "/api/super-admin/tenants?limit=10&offset=20", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusOK, rec.Code)
	s.EqualValues(2, s.decode(rec)["count"])
}

func (s *HandlersTestSuite) TestListTenantsRejectsOversizedPage() {
	rec := s.do(http.MethodGet, "/api/super-admin/tenants?limit=500", "", s.token(models.RoleSuperAdmin, nil))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("limit must be at most 200", s.decode(rec)["details"])
	s.tenants.AssertNotCalled(s.T(), "ListAll", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestLoginSetsHttpOnlyCookie() {
	user := &models.User{ID: uuid.New(), TenantID: &s.tenantA, Email: "ann@acme.test", Role: models.RoleUser, PasswordHash: "secret-hash"}
	tok := models.SessionToken{Token: "signed", TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)}
	s.auth.On("Login", mock.Anything, "ann@acme.test", "pw").Return(user, tok, nil).Once()

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"ann@acme.test","password":"pw"}`, "")
	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "secret-hash")

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("session_token", cookies[0].Name)
	s.Equal("signed", cookies[0].Value)
	s.True(cookies[0].HttpOnly)
}

func (s *HandlersTestSuite) TestLoginWrongPasswordIs401() {
	s.auth.On("Login", mock.Anything, "ann@acme.test", "bad").Return(nil, models.SessionToken{}, models.ErrUnauthenticated).Once()

	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"ann@acme.test","password":"bad"}`, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(rec.Result().Cookies())
}

func (s *HandlersTestSuite) TestLoginRequiresEmail() {
	rec := s.do(http.MethodPost, "/api/auth/login", `{"password":"pw"}`, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("email is required", s.decode(rec)["details"])
	s.auth.AssertNotCalled(s.T(), "Login", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestLogoutRevokesAndClearsCookie() {
	token := s.token(models.RoleUser, &s.tenantA)
	s.auth.On("Logout", mock.Anything, token).Return(nil).Once()

	rec := s.do(http.MethodPost, "/api/auth/logout", "", token)
	s.Equal(http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Empty(cookies[0].Value)
	s.Equal(-1, cookies[0].MaxAge)
}

func (s *HandlersTestSuite) TestSession() {
	rec := s.do(http.MethodGet, "/api/auth/session", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(false, s.decode(rec)["authenticated"])

	rec = s.do(http.MethodGet, "/api/auth/session", "", s.token(models.RoleTenantAdmin, &s.tenantA))
	body := s.decode(rec)
	s.Equal(true, body["authenticated"])
	s.Equal(string(models.RoleTenantAdmin), body["user"].(map[string]interface{})["role"])
}

func (s *HandlersTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/api/health", "", "")
	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("healthy", body["status"])
	s.Equal("not_configured", body["services"].(map[string]interface{})["redis"])

	s.dbUp = false
	rec = s.do(http.MethodGet, "/api/health", "", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("unhealthy", s.decode(rec)["status"])
}

func TestHealthDegradedWhenCacheDown(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })
	h := NewHealthHandlers(ok, down, ok, "test")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/health", nil), rec)
	if err := h.HealthCheck(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"degraded"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
