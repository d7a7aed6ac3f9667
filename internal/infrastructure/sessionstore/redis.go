package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sitebot-server/services/assistant-api/internal/domain/accessgate"
)

const redisKeyPrefix = "embed-session:"

// RedisStore keeps sessions in redis so any instance can validate a token
// issued by another. Expiry is delegated to redis key TTLs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put stores a session under its token with the given ttl.
func (s *RedisStore) Put(ctx context.Context, session *accessgate.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+session.Token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the session for token, or nil when absent or expired.
func (s *RedisStore) Get(ctx context.Context, token string) (*accessgate.Session, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session accessgate.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}
