// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"mendly/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// CacheClient backs the availability cache.
	CacheClient *redis.Client
	// LockClient is the dedicated client for per-store admission locks.
	LockClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitLockClient initializes the Redis client used for store locks.
func InitLockClient() {
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LockClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Locks): %v", err)
	}
}

// GetLockClient returns the Redis client for store locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		InitLockClient()
	}
	return LockClient
}

// Availability cache. Entries are keyed by store, treatment, date and the
// store's epoch counter; bumping the epoch after any booking or slot write
// orphans every cached entry for that store without scanning keys.

const availabilityTTL = 60 * time.Second

func availabilityEpochKey(storeID string) string {
	return "avail:epoch:" + storeID
}

// AvailabilityEpoch returns the store's current cache epoch (0 if unset).
func AvailabilityEpoch(ctx context.Context, storeID string) int64 {
	n, err := GetCacheClient().Get(ctx, availabilityEpochKey(storeID)).Int64()
	if err != nil {
		return 0
	}
	return n
}

// BumpAvailabilityEpoch invalidates all cached availability for a store.
func BumpAvailabilityEpoch(ctx context.Context, storeID string) {
	if err := GetCacheClient().Incr(ctx, availabilityEpochKey(storeID)).Err(); err != nil {
		GetLogger().Warn("availability epoch bump failed", zap.Error(err))
	}
}

// AvailabilityCacheKey builds the versioned cache key.
func AvailabilityCacheKey(ctx context.Context, storeID, treatmentID, date string) string {
	epoch := AvailabilityEpoch(ctx, storeID)
	return fmt.Sprintf("avail:%s:%s:%s:%d", storeID, treatmentID, date, epoch)
}

// CacheGet fetches a raw cached value; ok is false on miss or error.
func CacheGet(ctx context.Context, key string) ([]byte, bool) {
	raw, err := GetCacheClient().Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

// CacheSet stores a value under the availability TTL. Failures are logged
// and swallowed; the cache is an optimization, never a dependency.
func CacheSet(ctx context.Context, key string, value []byte) {
	if err := GetCacheClient().Set(ctx, key, value, availabilityTTL).Err(); err != nil {
		GetLogger().Warn("cache set failed", zap.Error(err))
	}
}
