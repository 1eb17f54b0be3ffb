// File: utils/lock.go
package utils

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockNotAcquired is returned when a store lock cannot be taken before
// the acquisition deadline.
var ErrLockNotAcquired = errors.New("store lock not acquired")

// StoreLocker serializes booking admission per store. Acquire blocks until
// the lock is held or the context/deadline gives up, and returns a release
// function that must be called exactly once.
type StoreLocker interface {
	Acquire(ctx context.Context, storeID string) (release func(), err error)
}

const (
	lockTTL          = 10 * time.Second
	lockPollInterval = 25 * time.Millisecond
	lockWaitDeadline = 5 * time.Second
)

// Release only if we still own the lock; a lock that expired and was
// re-acquired by another process must not be deleted.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStoreLocker implements StoreLocker on a dedicated Redis DB using
// SET NX with a TTL and a compare-and-delete release.
type RedisStoreLocker struct {
	client *redis.Client
}

// NewRedisStoreLocker wraps the shared lock client.
func NewRedisStoreLocker() *RedisStoreLocker {
	return &RedisStoreLocker{client: GetLockClient()}
}

func (l *RedisStoreLocker) Acquire(ctx context.Context, storeID string) (func(), error) {
	key := "lock:store:" + storeID
	token := uuid.New().String()

	deadline := time.Now().Add(lockWaitDeadline)
	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	release := func() {
		// Best effort; the TTL reclaims the lock if this fails.
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(relCtx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
