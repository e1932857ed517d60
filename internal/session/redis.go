package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Veraticus/penny-for-your-thoughts/internal/common"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

// Ensure RedisStore implements the Store interface.
var _ Store = (*RedisStore)(nil)

// RedisConfig holds connection settings for the Redis session backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore keeps sessions in Redis under session:<userID> keys, relying
// on key TTL for expiry. This is the backend to run when more than one
// process may handle a user's messages.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
	}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

// Load retrieves the session for userID. Expired keys are handled by
// Redis itself and read back as absent.
func (s *RedisStore) Load(ctx context.Context, userID string) (*model.ChatSession, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess model.ChatSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &sess, nil
}

// Save stores the session with a fresh TTL.
func (s *RedisStore) Save(ctx context.Context, userID string, sess *model.ChatSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the session for userID.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping verifies connectivity to the Redis server.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
