package adapter

import (
	"context"

	"github.com/pkg/errors"

	"bloom/internal/pkg/redis"
)

const invalidateScriptName = "invalidate_keys"

// Deleting the whole set in one script keeps a multi-key invalidation from
// being torn by a concurrent cache fill between two DEL round trips.
var invalidateScript = `
local removed = 0
for i = 1, #KEYS do
    removed = removed + redis.call('del', KEYS[i])
end
return removed
`

// CacheRedisAdapter implements port.CacheInvalidator against the storefront's
// read-through cache.
type CacheRedisAdapter struct {
	redisClient *redis.Client
}

func NewCacheRedisAdapter(redisClient *redis.Client) (*CacheRedisAdapter, error) {
	if err := redisClient.LoadScriptFromContent(invalidateScriptName, invalidateScript); err != nil {
		return nil, errors.Wrap(err, "load invalidation script")
	}
	return &CacheRedisAdapter{redisClient: redisClient}, nil
}

func (a *CacheRedisAdapter) Invalidate(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := a.redisClient.RunScript(ctx, invalidateScriptName, keys)
	return errors.Wrap(err, "invalidate cache keys")
}
