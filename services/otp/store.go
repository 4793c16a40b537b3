package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"vexstorm/models"

	"github.com/go-redis/redis/v8"
)

// Store holds at most one challenge per email key.
type Store interface {
	// Get returns nil, nil when no challenge exists.
	Get(ctx context.Context, key string) (*models.OTPChallenge, error)
	// Set replaces any existing challenge for key.
	Set(ctx context.Context, key string, ch models.OTPChallenge) error
	// Delete removes the challenge and reports whether this call removed it.
	Delete(ctx context.Context, key string) (bool, error)
}

// MemoryStore keeps challenges in process memory; they are lost on restart.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]models.OTPChallenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]models.OTPChallenge)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[key]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, ch models.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[key] = ch
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.challenges[key]
	delete(s.challenges, key)
	return ok, nil
}

// expiredGrace keeps Redis entries alive past their expiry so a late
// verification still sees the challenge and reports it as expired.
const expiredGrace = time.Hour

// RedisStore shares challenges between instances through Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "otp:"}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.OTPChallenge, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve OTP: %w", err)
	}
	var ch models.OTPChallenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("failed to decode OTP: %w", err)
	}
	return &ch, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, ch models.OTPChallenge) error {
	raw, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode OTP: %w", err)
	}
	ttl := time.Until(ch.ExpiresAt) + expiredGrace
	if ttl < expiredGrace {
		ttl = expiredGrace
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache OTP: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete OTP: %w", err)
	}
	return n > 0, nil
}
