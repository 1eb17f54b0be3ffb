package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// SystemHealth is the snapshot served by the health endpoint.
type SystemHealth struct {
	Mongo     bool      `json:"mongo"`
	Cache     bool      `json:"cache"`
	Locks     bool      `json:"locks"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth SystemHealth
	healthMu      sync.RWMutex
)

// GetSystemHealth returns the latest stored health snapshot.
func GetSystemHealth() SystemHealth {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings the backing stores once a minute and keeps an
// in-memory snapshot so the health endpoint never blocks on them.
func StartHealthMonitor(mongoClient *mongo.Client, cache, locks *redis.Client) {
	probe := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		snapshot := SystemHealth{
			Mongo:     mongoClient.Ping(ctx, nil) == nil,
			Cache:     cache.Ping(ctx).Err() == nil,
			Locks:     locks.Ping(ctx).Err() == nil,
			CheckedAt: time.Now().UTC(),
		}

		healthMu.Lock()
		currentHealth = snapshot
		healthMu.Unlock()
	}

	probe()
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			probe()
		}
	}()
}
