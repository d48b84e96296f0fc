package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ier-platform/auth-service/internal/domain"
)

const cacheKeyPrefix = "account:"

// AccountCache keeps recently resolved accounts in Redis so the bearer
// middleware does not hit Postgres on every request. Entries are best
// effort: any cache failure falls through to the repository.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAccountCache builds a cache with the given entry TTL. A nil client or
// non-positive TTL disables caching.
func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func (c *AccountCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached account for the UUID, if present.
func (c *AccountCache) Get(ctx context.Context, id uuid.UUID) (*domain.Account, bool) {
	if !c.enabled() {
		return nil, false
	}
	payload, err := c.client.Get(ctx, cacheKeyPrefix+id.String()).Bytes()
	if err != nil {
		return nil, false
	}
	var account domain.Account
	if err := json.Unmarshal(payload, &account); err != nil {
		return nil, false
	}
	return &account, true
}

// Set stores the account under its UUID.
func (c *AccountCache) Set(ctx context.Context, account *domain.Account) {
	if !c.enabled() {
		return
	}
	payload, err := json.Marshal(account)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKeyPrefix+account.UUID.String(), payload, c.ttl).Err()
}
