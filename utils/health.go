package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus reports the reachability of the service's backing stores:
// the booking database, the wizard session cache, and the queue the
// completion worker runs on.
type HealthStatus struct {
	Mongo           bool      `json:"mongo"`
	SessionCache    bool      `json:"sessionCache"`
	CompletionQueue bool      `json:"completionQueue"`
	CheckedAt       time.Time `json:"checkedAt"`
}

const (
	healthCheckInterval = 60 * time.Second
	healthPingTimeout   = 5 * time.Second
)

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest snapshot; /health serves it as-is.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor pings the session cache, the completion queue, and
// Mongo on a fixed interval and keeps the latest result in memory.
func StartHealthMonitor(sessionCache, completionQueue *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(healthCheckInterval)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), healthPingTimeout)
			snapshot := HealthStatus{
				Mongo:           mongoClient.Ping(ctx, nil) == nil,
				SessionCache:    sessionCache.Ping(ctx).Err() == nil,
				CompletionQueue: completionQueue.Ping(ctx).Err() == nil,
				CheckedAt:       time.Now(),
			}
			cancel()

			healthMu.Lock()
			currentHealth = snapshot
			healthMu.Unlock()
		}
	}()
}
