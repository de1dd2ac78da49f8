package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"socialai/internal/caching"
	"socialai/internal/config"
	"socialai/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const oauthStateTTL = 10 * time.Minute

// OAuthEndpoints are the provider URLs an adapter talks to. Tests point
// them at an httptest server.
type OAuthEndpoints struct {
	AuthURL    string
	TokenURL   string
	APIBaseURL string
}

type oauthToken struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// newTokenClient is used for non-idempotent POSTs: no retries.
func newTokenClient() *resty.Client {
	return resty.New().
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
}

// newAPIClient retries idempotent GETs on transport errors and 5xx.
func newAPIClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.Request != nil && r.Request.Method == resty.MethodGet && r.StatusCode() >= 500
		})
}

// buildAuthURL renders a provider authorization URL.
func buildAuthURL(base string, cfg config.OAuthClientConfig, scopes []string, state string, extra url.Values) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", cfg.RedirectURL)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("state", state)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return base + "?" + q.Encode()
}

// newOAuthState binds a callback to the tenant that started the flow. The
// nonce is single use and expires after oauthStateTTL.
func newOAuthState(ctx context.Context, cache caching.CacheService, tenantID uuid.UUID) (string, error) {
	nonce, err := generateSecureToken(18)
	if err != nil {
		return "", err
	}
	if err := cache.StoreOAuthState(ctx, nonce, tenantID, oauthStateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString([]byte(tenantID.String() + ":" + nonce)), nil
}

// consumeOAuthState returns the tenant a callback belongs to.
func consumeOAuthState(ctx context.Context, cache caching.CacheService, state string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed state", models.ErrInvalidInput)
	}
	tenantPart, nonce, ok := strings.Cut(string(raw), ":")
	if !ok || nonce == "" {
		return uuid.Nil, fmt.Errorf("%w: malformed state", models.ErrInvalidInput)
	}
	claimed, err := uuid.Parse(tenantPart)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed state", models.ErrInvalidInput)
	}

	stored, err := cache.ConsumeOAuthState(ctx, nonce)
	if errors.Is(err, caching.ErrStateNotFound) {
		return uuid.Nil, fmt.Errorf("%w: state expired or already used", models.ErrInvalidInput)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("consume oauth state: %w", err)
	}
	if stored != claimed {
		return uuid.Nil, fmt.Errorf("%w: state does not match", models.ErrInvalidInput)
	}
	return stored, nil
}

// exchangeCode trades an authorization code for tokens.
func exchangeCode(ctx context.Context, client *resty.Client, provider, tokenURL string, cfg config.OAuthClientConfig, code string) (*oauthToken, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code is required", models.ErrInvalidInput)
	}

	var tok oauthToken
	resp, err := client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "authorization_code",
			"code":          code,
			"redirect_uri":  cfg.RedirectURL,
			"client_id":     cfg.ClientID,
			"client_secret": cfg.ClientSecret,
		}).
		SetResult(&tok).
		SetError(&tok).
		Post(tokenURL)
	if err != nil {
		return nil, &models.UpstreamError{Provider: provider, Message: err.Error()}
	}
	if resp.IsError() || tok.AccessToken == "" {
		msg := tok.ErrorDescription
		if msg == "" {
			msg = tok.Error
		}
		if msg == "" {
			msg = "token exchange failed"
		}
		return nil, &models.UpstreamError{Provider: provider, Status: resp.StatusCode(), Message: msg}
	}
	return &tok, nil
}

func (t *oauthToken) integration(provider models.Provider, now time.Time) *models.CloudStorageIntegration {
	in := &models.CloudStorageIntegration{
		ID:          uuid.New(),
		Provider:    provider,
		AccessToken: t.AccessToken,
	}
	if t.RefreshToken != "" {
		refresh := t.RefreshToken
		in.RefreshToken = &refresh
	}
	if t.ExpiresIn > 0 {
		exp := now.Add(time.Duration(t.ExpiresIn) * time.Second)
		in.ExpiresAt = &exp
	}
	return in
}

func requireClient(cfg config.OAuthClientConfig, prefix string) error {
	if cfg.ClientID == "" {
		return models.MisconfiguredError(prefix + "_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		return models.MisconfiguredError(prefix + "_CLIENT_SECRET")
	}
	return nil
}
