package utils

import (
	"context"
	"log"
	"time"

	"meytle/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient holds wizard sessions; keys are session ids, values are
// JSON-marshalled WizardSession snapshots with a TTL.
var SessionCacheClient *redis.Client

// InitSessionCache initializes the Redis client for wizard-session storage.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Session Cache): %v", err)
	}
}

// GetSessionCacheClient returns the wizard-session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// CompletionQueueClient points at the Redis database the completion worker
// queues on. Asynq manages its own connections; this client exists for
// health pings and connection monitoring.
var CompletionQueueClient *redis.Client

// GetCompletionQueueClient returns the completion-queue client, creating it
// on first use. No startup ping: a queue outage must not block boot.
func GetCompletionQueueClient() *redis.Client {
	if CompletionQueueClient == nil {
		CompletionQueueClient = redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisCompletionDB,
		})
	}
	return CompletionQueueClient
}
