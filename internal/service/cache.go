package service

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const productCachePrefix = "product:"

// ProductCacheKey is the redis key for one cached product lookup.
func ProductCacheKey(externalID string) string { return productCachePrefix + externalID }

// invalidateProductCache drops cached lookups for the given external ids.
// Best-effort: a nil client (unit tests) or a redis error never fails the
// mutation that triggered the invalidation.
func invalidateProductCache(ctx context.Context, rdb *redis.Client, externalIDs ...string) {
	if rdb == nil || len(externalIDs) == 0 {
		return
	}
	keys := make([]string, len(externalIDs))
	for i, id := range externalIDs {
		keys[i] = ProductCacheKey(id)
	}
	_ = rdb.Del(ctx, keys...).Err()
}
