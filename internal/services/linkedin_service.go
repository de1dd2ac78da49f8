package services

import (
	"context"
	"fmt"
	"time"

	"socialai/internal/caching"
	"socialai/internal/config"
	"socialai/internal/models"
	"socialai/internal/repositories"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var LinkedInScopes = []string{"openid", "profile", "email", "w_member_social"}

func DefaultLinkedInEndpoints() OAuthEndpoints {
	return OAuthEndpoints{
		AuthURL:    "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL:   "https://www.linkedin.com/oauth/v2/accessToken",
		APIBaseURL: "https://api.linkedin.com",
	}
}

// LinkedInProfile is the OpenID userinfo document.
type LinkedInProfile struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Picture       string `json:"picture"`
}

type LinkedInService interface {
	AuthURL(ctx context.Context, p *models.Principal) (string, error)
	HandleCallback(ctx context.Context, code, state string) (uuid.UUID, error)
	// TestConnection fetches the profile with the tenant's stored token.
	TestConnection(ctx context.Context, p *models.Principal) (*LinkedInProfile, error)
	// Publish posts text as the connected member and returns the post URN.
	Publish(ctx context.Context, tenantID uuid.UUID, text string) (string, error)
}

type linkedInService struct {
	cfg             config.OAuthClientConfig
	endpoints       OAuthEndpoints
	integrationRepo repositories.IntegrationRepository
	cache           caching.CacheService
	tokenClient     *resty.Client
	apiClient       *resty.Client
	log             *zap.Logger
}

func NewLinkedInService(cfg config.OAuthClientConfig, endpoints OAuthEndpoints, integrationRepo repositories.IntegrationRepository, cache caching.CacheService, log *zap.Logger) LinkedInService {
	return &linkedInService{
		cfg:             cfg,
		endpoints:       endpoints,
		integrationRepo: integrationRepo,
		cache:           cache,
		tokenClient:     newTokenClient(),
		apiClient:       newAPIClient(endpoints.APIBaseURL),
		log:             log,
	}
}

func (s *linkedInService) AuthURL(ctx context.Context, p *models.Principal) (string, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return "", err
	}
	if err := requireClient(s.cfg, "LINKEDIN"); err != nil {
		return "", err
	}
	tenantID, _ := scope.TenantID()

	state, err := newOAuthState(ctx, s.cache, tenantID)
	if err != nil {
		return "", err
	}
	return buildAuthURL(s.endpoints.AuthURL, s.cfg, LinkedInScopes, state, nil), nil
}

func (s *linkedInService) HandleCallback(ctx context.Context, code, state string) (uuid.UUID, error) {
	if err := requireClient(s.cfg, "LINKEDIN"); err != nil {
		return uuid.Nil, err
	}
	tenantID, err := consumeOAuthState(ctx, s.cache, state)
	if err != nil {
		return uuid.Nil, err
	}

	tok, err := exchangeCode(ctx, s.tokenClient, "linkedin", s.endpoints.TokenURL, s.cfg, code)
	if err != nil {
		return uuid.Nil, err
	}

	in := tok.integration(models.ProviderLinkedIn, time.Now())
	if profile, err := s.userInfo(ctx, tok.AccessToken); err == nil && profile.Email != "" {
		email := profile.Email
		in.AccountEmail = &email
	}
	if err := s.integrationRepo.Upsert(ctx, repositories.TenantScope(tenantID), in); err != nil {
		return uuid.Nil, fmt.Errorf("store linkedin integration: %w", err)
	}

	s.log.Info("linkedin connected", zap.String("tenant_id", tenantID.String()))
	return tenantID, nil
}

func (s *linkedInService) TestConnection(ctx context.Context, p *models.Principal) (*LinkedInProfile, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return nil, err
	}
	in, err := s.integrationRepo.Get(ctx, scope, models.ProviderLinkedIn)
	if err != nil {
		return nil, err
	}
	return s.userInfo(ctx, in.AccessToken)
}

func (s *linkedInService) userInfo(ctx context.Context, accessToken string) (*LinkedInProfile, error) {
	var profile LinkedInProfile
	var apiErr linkedInError
	resp, err := s.apiClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&profile).
		SetError(&apiErr).
		Get("/v2/userinfo")
	if err != nil {
		return nil, &models.UpstreamError{Provider: "linkedin", Message: err.Error()}
	}
	if resp.IsError() {
		return nil, &models.UpstreamError{Provider: "linkedin", Status: resp.StatusCode(), Message: apiErr.message()}
	}
	return &profile, nil
}

type linkedInError struct {
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	ServiceErrorCode int    `json:"serviceErrorCode"`
}

func (e linkedInError) message() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	return "request failed"
}

func (s *linkedInService) Publish(ctx context.Context, tenantID uuid.UUID, text string) (string, error) {
	in, err := s.integrationRepo.Get(ctx, repositories.TenantScope(tenantID), models.ProviderLinkedIn)
	if err != nil {
		return "", fmt.Errorf("load linkedin integration: %w", err)
	}
	if in.ExpiresAt != nil && time.Now().After(*in.ExpiresAt) {
		return "", &models.UpstreamError{Provider: "linkedin", Message: "access token expired, reconnect LinkedIn"}
	}

	profile, err := s.userInfo(ctx, in.AccessToken)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"author":         "urn:li:person:" + profile.Sub,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	var apiErr linkedInError
	resp, err := s.tokenClient.R().
		SetContext(ctx).
		SetAuthToken(in.AccessToken).
		SetHeader("X-Restli-Protocol-Version", "2.0.0").
		SetBody(body).
		SetResult(&created).
		SetError(&apiErr).
		Post(s.endpoints.APIBaseURL + "/v2/ugcPosts")
	if err != nil {
		return "", &models.UpstreamError{Provider: "linkedin", Message: err.Error()}
	}
	if resp.IsError() {
		return "", &models.UpstreamError{Provider: "linkedin", Status: resp.StatusCode(), Message: apiErr.message()}
	}

	id := created.ID
	if id == "" {
		id = resp.Header().Get("X-Restli-Id")
	}
	return id, nil
}
