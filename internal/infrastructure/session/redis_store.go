package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bizreg/backend/internal/domain/registration"
	"github.com/redis/go-redis/v9"
)

const (
	stepSuffix = ":businessRegistrationStep"
	dataSuffix = ":businessRegistrationData"
)

// RedisDraftStore implements DraftStore using Redis.
// Step and data live under separate keys so either can be read cheaply;
// both share the session TTL and are removed together on Clear.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisDraftStore creates a Redis-backed draft store and verifies the
// connection before returning
func NewRedisDraftStore(cfg RedisConfig, ttl time.Duration) (*RedisDraftStore, error) {
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

	return &RedisDraftStore{client: client, ttl: ttl}, nil
}

// NewRedisDraftStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisDraftStoreWithClient(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: ttl}
}

func stepKey(sessionID string) string {
	return "wizard:" + sessionID + stepSuffix
}

func dataKey(sessionID string) string {
	return "wizard:" + sessionID + dataSuffix
}

// Save writes the current step and draft data under the session's keys
func (s *RedisDraftStore) Save(ctx context.Context, sessionID string, step int, data *registration.DraftData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode draft data: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, stepKey(sessionID), strconv.Itoa(step), s.ttl)
	pipe.Set(ctx, dataKey(sessionID), payload, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save wizard state: %w", err)
	}
	return nil
}

// Load returns the stored step and data, or (0, nil, nil) when nothing is
// persisted for the session
func (s *RedisDraftStore) Load(ctx context.Context, sessionID string) (int, *registration.DraftData, error) {
	raw, err := s.client.Get(ctx, stepKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load wizard step: %w", err)
	}

	step, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("corrupt wizard step %q: %w", raw, err)
	}

	payload, err := s.client.Get(ctx, dataKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return step, &registration.DraftData{}, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load wizard data: %w", err)
	}

	var data registration.DraftData
	if err := json.Unmarshal(payload, &data); err != nil {
		return 0, nil, fmt.Errorf("corrupt wizard data: %w", err)
	}
	return step, &data, nil
}

// Clear removes both session keys
func (s *RedisDraftStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, stepKey(sessionID), dataKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear wizard state: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection is alive
func (s *RedisDraftStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client
func (s *RedisDraftStore) Close() error {
	return s.client.Close()
}

// Ensure RedisDraftStore implements DraftStore
var _ registration.DraftStore = (*RedisDraftStore)(nil)
