package testhelpers

import (
	"testing"
	"time"

	"socialai/internal/caching"
	"socialai/internal/config"
	"socialai/internal/models"
	"socialai/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionSecret signs test sessions. It satisfies the 32 character minimum.
const SessionSecret = "0123456789abcdef0123456789abcdef"

// SessionConfig returns an HS256 configuration with a one hour TTL.
func SessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     SessionSecret,
		CookieName: "session_token",
		TTL:        time.Hour,
		Issuer:     "socialai",
	}
}

// NewResolver builds a session resolver for tests. store may be nil.
func NewResolver(t *testing.T, store session.RevocationStore) *session.Resolver {
	t.Helper()

	r, err := session.NewResolver(SessionConfig(), store, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create session resolver: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

// NewCache returns a CacheService backed by an in-process miniredis. The
// server is returned so tests can fast-forward TTLs.
func NewCache(t *testing.T) (caching.CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return caching.NewCacheServiceFromClient(client), mr
}

// Principal builds a valid principal. Pass a nil tenant for SUPER_ADMIN.
func Principal(role models.Role, tenantID *uuid.UUID) *models.Principal {
	return &models.Principal{
		ID:       uuid.New(),
		Email:    uuid.NewString()[:8] + "@example.com",
		Role:     role,
		TenantID: tenantID,
	}
}

// Token issues a signed session for p.
func Token(t *testing.T, r *session.Resolver, p *models.Principal) string {
	t.Helper()

	tok, err := r.Issue(p)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	return tok.Token
}
