package utils

import (
	"context"
	"log"
	"time"

	"busbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// AgentCtxClient holds agent conversation context.
	AgentCtxClient *redis.Client
)

// InitRedis initializes both Redis clients and verifies connectivity.
func InitRedis() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	AgentCtxClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAgentCtxDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (cache): %v", err)
	}
	if _, err := AgentCtxClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (agent context): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitRedis()
	}
	return CacheClient
}

// GetAgentCtxClient returns the agent context client.
func GetAgentCtxClient() *redis.Client {
	if AgentCtxClient == nil {
		InitRedis()
	}
	return AgentCtxClient
}
