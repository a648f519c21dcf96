// Package repository implements session-scoped storage for the modification
// marker: the booking currently being edited by a browser session. Markers
// survive navigation and reload but expire with the session TTL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resorthub/internal/codec"
	"resorthub/internal/config"
	"resorthub/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("modifyingBooking:%s", sessionID)
}

// GetSession returns the marker for a session, or nil when absent. A stale
// marker that no longer decodes is cleared and reported as absent.
func (r *RedisSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	if r.client == nil {
		return nil, errors.New("redis client is nil")
	}
	key := sessionKey(sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session marker from redis: %w", err)
	}

	booking, err := codec.DecodeBooking(val)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("stale modification marker, clearing")
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			r.logger.Error().Err(delErr).Str("session_id", sessionID).Msg("failed to clear stale marker")
		}
		return nil, nil
	}

	return &booking, nil
}

func (r *RedisSessionRepository) SetSession(ctx context.Context, sessionID string, booking models.Booking) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	payload, err := codec.EncodeBooking(booking)
	if err != nil {
		return fmt.Errorf("failed to encode session marker: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(sessionID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session marker in redis: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) ClearSession(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session marker from redis: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
