package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"socialai/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "socialai"

// ErrStateNotFound is returned when an OAuth state nonce is unknown, expired
// or already consumed.
var ErrStateNotFound = errors.New("oauth state not found")

type CacheService interface {
	// Pricing caching
	GetPricing(ctx context.Context) ([]models.PricingPlan, error)
	SetPricing(ctx context.Context, plans []models.PricingPlan, ttl time.Duration) error
	InvalidatePricing(ctx context.Context) error

	// OAuth state nonces are single use.
	StoreOAuthState(ctx context.Context, nonce string, tenantID uuid.UUID, ttl time.Duration) error
	ConsumeOAuthState(ctx context.Context, nonce string) (uuid.UUID, error)

	// Session revocation
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int, log *zap.Logger) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn("redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		log.Debug("redis connection established", zap.String("addr", parsedAddr))
	}

	return &redisCacheService{client: client}
}

// NewCacheServiceFromClient wraps an existing client.
func NewCacheServiceFromClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func pricingKey() string { return keyPrefix + ":pricing:plans" }

func stateKey(nonce string) string { return fmt.Sprintf("%s:oauth_state:%s", keyPrefix, nonce) }

func revokedKey(tokenID string) string { return fmt.Sprintf("%s:revoked_session:%s", keyPrefix, tokenID) }

func (r *redisCacheService) GetPricing(ctx context.Context) ([]models.PricingPlan, error) {
	data, err := r.client.Get(ctx, pricingKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var plans []models.PricingPlan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *redisCacheService) SetPricing(ctx context.Context, plans []models.PricingPlan, ttl time.Duration) error {
	data, err := json.Marshal(plans)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, pricingKey(), data, ttl).Err()
}

func (r *redisCacheService) InvalidatePricing(ctx context.Context) error {
	return r.client.Del(ctx, pricingKey()).Err()
}

func (r *redisCacheService) StoreOAuthState(ctx context.Context, nonce string, tenantID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, stateKey(nonce), tenantID.String(), ttl).Err()
}

func (r *redisCacheService) ConsumeOAuthState(ctx context.Context, nonce string) (uuid.UUID, error) {
	val, err := r.client.GetDel(ctx, stateKey(nonce)).Result()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, ErrStateNotFound
		}
		return uuid.Nil, err
	}
	return uuid.Parse(val)
}

func (r *redisCacheService) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (r *redisCacheService) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
