package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"socialai/internal/caching"
	"socialai/internal/config"
	"socialai/internal/models"
	"socialai/internal/repositories"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var GoogleDriveScopes = []string{
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/drive.file",
}

func DefaultGoogleEndpoints() OAuthEndpoints {
	return OAuthEndpoints{
		AuthURL:    "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:   "https://oauth2.googleapis.com/token",
		APIBaseURL: "https://www.googleapis.com",
	}
}

type GoogleDriveService interface {
	// AuthURL starts the consent flow for the principal's tenant.
	AuthURL(ctx context.Context, p *models.Principal) (string, error)
	// HandleCallback stores the grant and returns the tenant it belongs to.
	HandleCallback(ctx context.Context, code, state string) (uuid.UUID, error)
	// Disconnect removes only the caller tenant's Google Drive grant.
	Disconnect(ctx context.Context, p *models.Principal) (int64, error)
}

type googleDriveService struct {
	cfg             config.OAuthClientConfig
	endpoints       OAuthEndpoints
	integrationRepo repositories.IntegrationRepository
	cache           caching.CacheService
	tokenClient     *resty.Client
	apiClient       *resty.Client
	log             *zap.Logger
}

func NewGoogleDriveService(cfg config.OAuthClientConfig, endpoints OAuthEndpoints, integrationRepo repositories.IntegrationRepository, cache caching.CacheService, log *zap.Logger) GoogleDriveService {
	return &googleDriveService{
		cfg:             cfg,
		endpoints:       endpoints,
		integrationRepo: integrationRepo,
		cache:           cache,
		tokenClient:     newTokenClient(),
		apiClient:       newAPIClient(endpoints.APIBaseURL),
		log:             log,
	}
}

func (s *googleDriveService) AuthURL(ctx context.Context, p *models.Principal) (string, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return "", err
	}
	if err := requireClient(s.cfg, "GOOGLE"); err != nil {
		return "", err
	}
	tenantID, _ := scope.TenantID()

	state, err := newOAuthState(ctx, s.cache, tenantID)
	if err != nil {
		return "", err
	}
	extra := url.Values{
		"access_type": {"offline"},
		"prompt":      {"consent"},
	}
	return buildAuthURL(s.endpoints.AuthURL, s.cfg, GoogleDriveScopes, state, extra), nil
}

func (s *googleDriveService) HandleCallback(ctx context.Context, code, state string) (uuid.UUID, error) {
	if err := requireClient(s.cfg, "GOOGLE"); err != nil {
		return uuid.Nil, err
	}
	tenantID, err := consumeOAuthState(ctx, s.cache, state)
	if err != nil {
		return uuid.Nil, err
	}

	tok, err := exchangeCode(ctx, s.tokenClient, "google", s.endpoints.TokenURL, s.cfg, code)
	if err != nil {
		return uuid.Nil, err
	}

	in := tok.integration(models.ProviderGoogleDrive, time.Now())
	if email := s.accountEmail(ctx, tok.AccessToken); email != "" {
		in.AccountEmail = &email
	}
	if err := s.integrationRepo.Upsert(ctx, repositories.TenantScope(tenantID), in); err != nil {
		return uuid.Nil, fmt.Errorf("store google drive integration: %w", err)
	}

	s.log.Info("google drive connected", zap.String("tenant_id", tenantID.String()))
	return tenantID, nil
}

// accountEmail is best effort; a failure only leaves the email blank.
func (s *googleDriveService) accountEmail(ctx context.Context, accessToken string) string {
	var about struct {
		User struct {
			EmailAddress string `json:"emailAddress"`
		} `json:"user"`
	}
	resp, err := s.apiClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("fields", "user(emailAddress)").
		SetResult(&about).
		Get("/drive/v3/about")
	if err != nil || resp.IsError() {
		s.log.Debug("google drive about lookup failed", zap.Error(err))
		return ""
	}
	return about.User.EmailAddress
}

func (s *googleDriveService) Disconnect(ctx context.Context, p *models.Principal) (int64, error) {
	scope, err := repositories.ScopeFor(p)
	if err != nil {
		return 0, err
	}
	n, err := s.integrationRepo.Delete(ctx, scope, models.ProviderGoogleDrive)
	if err != nil {
		return 0, fmt.Errorf("delete google drive integration: %w", err)
	}
	s.log.Info("google drive disconnected", zap.String("scope", scope.String()), zap.Int64("removed", n))
	return n, nil
}
