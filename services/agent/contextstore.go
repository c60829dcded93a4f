package agent

import (
	"context"
	"encoding/json"
	"time"

	"busbook/models"

	"github.com/go-redis/redis/v8"
)

const (
	agentCtxPrefix = "agent:ctx:"
	historyWindow  = 20
	defaultCtxTTL  = 30 * time.Minute
)

// RedisContextStore caches the recent message window per session so prompt
// assembly avoids a Mongo round trip on every turn. Mongo stays the source of
// truth; a cache miss falls back to it.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisContextStore builds a context store with the given TTL; zero means
// the default of 30 minutes.
func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	if ttl <= 0 {
		ttl = defaultCtxTTL
	}
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	data, err := s.client.Get(ctx, agentCtxPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var history []models.ChatMessage
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *RedisContextStore) Set(ctx context.Context, sessionID string, history []models.ChatMessage) error {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, agentCtxPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, agentCtxPrefix+sessionID).Err()
}
