package redisadapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OwnerCache backs ports.OwnerCache with Redis. Values are "1"/"0" under a
// per-(tenant, user) key with a TTL set by the caller.
type OwnerCache struct {
	client *redis.Client
}

func NewOwnerCache(client *redis.Client) *OwnerCache {
	return &OwnerCache{client: client}
}

func (c *OwnerCache) Get(ctx context.Context, tenantID, userID string) (bool, bool, error) {
	value, err := c.client.Get(ctx, ownerKey(tenantID, userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, err
	}
	return value == "1", true, nil
}

func (c *OwnerCache) Set(ctx context.Context, tenantID, userID string, owns bool, ttl time.Duration) error {
	value := "0"
	if owns {
		value = "1"
	}
	return c.client.Set(ctx, ownerKey(tenantID, userID), value, ttl).Err()
}

func (c *OwnerCache) Invalidate(ctx context.Context, tenantID, userID string) error {
	return c.client.Del(ctx, ownerKey(tenantID, userID)).Err()
}

func ownerKey(tenantID, userID string) string {
	return fmt.Sprintf("owner_membership:%s:%s", tenantID, userID)
}
