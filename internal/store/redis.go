package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/numeros/internal/game"
)

const gameKeyPrefix = "numeros:game:"

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	RedisClient *redis.Client
	// TTL applied on every Save; zero means no expiry.
	TTL time.Duration
}

// Redis stores games as JSON values that expire TTL after their last save.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store and checks the connection.
func NewRedis(ctx context.Context, cfg *RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Redis{client: cfg.RedisClient, ttl: cfg.TTL}, nil
}

func gameKey(id string) string { return gameKeyPrefix + id }

// Save persists a game to Redis, refreshing its TTL.
func (r *Redis) Save(ctx context.Context, g *game.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}
	if err := r.client.Set(ctx, gameKey(g.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

// Get retrieves a game by ID.
func (r *Redis) Get(ctx context.Context, id string) (*game.Game, error) {
	data, err := r.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &g, nil
}

// Delete removes a game.
func (r *Redis) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
