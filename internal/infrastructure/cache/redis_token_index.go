package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// tokenTTL bounds how long a token mapping lives in Redis. Tokens are
// immutable for a record's lifetime, so a long TTL is safe; expiry only
// costs a fallthrough to the database.
const tokenTTL = 30 * 24 * time.Hour

// RedisTokenIndex implements TokenIndex using Redis. Suitable for
// distributed deployments where multiple instances serve the public
// lookup endpoint.
type RedisTokenIndex struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisTokenIndex creates a new Redis-backed token index
func NewRedisTokenIndex(cfg RedisConfig) (*RedisTokenIndex, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTokenIndex{
		client:    client,
		keyPrefix: "tracking:token:",
	}, nil
}

// NewRedisTokenIndexWithClient creates an index with an existing Redis client
func NewRedisTokenIndexWithClient(client *redis.Client, keyPrefix string) *RedisTokenIndex {
	if keyPrefix == "" {
		keyPrefix = "tracking:token:"
	}
	return &RedisTokenIndex{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get resolves a token to a tracking ID
func (s *RedisTokenIndex) Get(ctx context.Context, token string) (uuid.UUID, bool, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to resolve token: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		// A corrupt value behaves like a miss
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// Set records a token to tracking ID mapping
func (s *RedisTokenIndex) Set(ctx context.Context, token string, trackingID uuid.UUID) error {
	if err := s.client.Set(ctx, s.keyPrefix+token, trackingID.String(), tokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to index token: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisTokenIndex) Close() error {
	return s.client.Close()
}

// Ensure RedisTokenIndex implements TokenIndex
var _ TokenIndex = (*RedisTokenIndex)(nil)
