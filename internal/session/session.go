// Package session turns a signed session token into a request Principal.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"socialai/internal/config"
	"socialai/internal/models"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session revoked")
)

// RevocationStore records logged-out token ids until they expire.
type RevocationStore interface {
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims is the session token payload.
type Claims struct {
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	TenantID *string `json:"tenant_id"`
	jwt.RegisteredClaims
}

type Resolver struct {
	secret     []byte
	jwks       *keyfunc.JWKS
	issuer     string
	ttl        time.Duration
	cookieName string
	store      RevocationStore
	log        *zap.Logger
	now        func() time.Time
}

// NewResolver verifies with JWKS keys when a JWKS URL is configured,
// otherwise with the HS256 shared secret.
func NewResolver(cfg config.SessionConfig, store RevocationStore, log *zap.Logger) (*Resolver, error) {
	r := &Resolver{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		store:      store,
		log:        log,
		now:        time.Now,
	}

	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.Warn("jwks refresh failed", zap.String("url", cfg.JWKSURL), zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}
		r.jwks = jwks
	}
	return r, nil
}

// Close stops the JWKS background refresh.
func (r *Resolver) Close() {
	if r.jwks != nil {
		r.jwks.EndBackground()
	}
}

func (r *Resolver) CookieName() string { return r.cookieName }

func (r *Resolver) keyfunc(token *jwt.Token) (interface{}, error) {
	if r.jwks != nil {
		return r.jwks.Keyfunc(token)
	}
	if len(r.secret) == 0 {
		return nil, models.MisconfiguredError("SESSION_SECRET")
	}
	return r.secret, nil
}

func (r *Resolver) methods() []string {
	if r.jwks != nil {
		return []string{"RS256", "ES256"}
	}
	return []string{jwt.SigningMethodHS256.Alg()}
}

// ParseToken verifies the signature, expiry, claims shape and revocation
// state of a token.
func (r *Resolver) ParseToken(ctx context.Context, raw string) (*models.Principal, *Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(r.methods()),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	}
	if r.issuer != "" && r.jwks == nil {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, claims, r.keyfunc, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, nil, ErrInvalidToken
	}

	p, err := claims.principal()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.ID != "" && r.store != nil {
		revoked, err := r.store.IsSessionRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, nil, ErrRevoked
		}
	}
	return p, claims, nil
}

func (c *Claims) principal() (*models.Principal, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("sub: %w", err)
	}
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return nil, err
	}
	p := &models.Principal{ID: id, Email: c.Email, Role: role}
	if c.TenantID != nil && *c.TenantID != "" {
		tenantID, err := uuid.Parse(*c.TenantID)
		if err != nil {
			return nil, fmt.Errorf("tenant_id: %w", err)
		}
		p.TenantID = &tenantID
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// TokenFromRequest reads the session cookie, then the bearer header.
func (r *Resolver) TokenFromRequest(req *http.Request) string {
	if cookie, err := req.Cookie(r.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := req.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// Resolve never fails: any problem yields no principal and is logged.
func (r *Resolver) Resolve(req *http.Request) (*models.Principal, bool) {
	raw := r.TokenFromRequest(req)
	if raw == "" {
		return nil, false
	}
	p, _, err := r.ParseToken(req.Context(), raw)
	if err != nil {
		r.log.Warn("session not resolved", zap.Error(err))
		return nil, false
	}
	return p, true
}

// Issue signs a new HS256 session for p.
func (r *Resolver) Issue(p *models.Principal) (models.SessionToken, error) {
	if r.jwks != nil || len(r.secret) == 0 {
		return models.SessionToken{}, models.MisconfiguredError("SESSION_SECRET")
	}
	if err := p.Validate(); err != nil {
		return models.SessionToken{}, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	now := r.now()
	expiresAt := now.Add(r.ttl)
	claims := Claims{
		Email: p.Email,
		Role:  string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID.String(),
			Issuer:    r.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if p.TenantID != nil {
		tenantID := p.TenantID.String()
		claims.TenantID = &tenantID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("sign session: %w", err)
	}
	return models.SessionToken{Token: signed, TokenID: claims.ID, ExpiresAt: expiresAt}, nil
}

// Revoke blacklists the token until its natural expiry. Invalid tokens are
// ignored: there is nothing to revoke.
func (r *Resolver) Revoke(ctx context.Context, raw string) error {
	if raw == "" || r.store == nil {
		return nil
	}
	_, claims, err := r.ParseToken(ctx, raw)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return r.store.RevokeSession(ctx, claims.ID, claims.ExpiresAt.Sub(r.now()))
}
