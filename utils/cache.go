package utils

import (
	"context"
	"fmt"
	"time"

	"vexstorm/config"

	"github.com/go-redis/redis/v8"
)

var (
	// OTPCacheClient backs the shared OTP challenge store.
	OTPCacheClient *redis.Client
)

// NewRedisClient connects to the configured Redis server on the given DB and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis db %d: %w", db, err)
	}
	return client, nil
}

// InitOTPCache initializes the Redis client for OTP challenges.
func InitOTPCache() error {
	client, err := NewRedisClient(config.AppConfig.RedisOTPDB)
	if err != nil {
		return err
	}
	OTPCacheClient = client
	return nil
}

// GetOTPCacheClient returns the Redis client for OTP challenges, or nil if
// InitOTPCache has not succeeded.
func GetOTPCacheClient() *redis.Client {
	return OTPCacheClient
}
