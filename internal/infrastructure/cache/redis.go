package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"talentmatch/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis wraps the result-cache client. Unlike a best-effort read
// cache, write failures here must surface to the caller: the matching
// pipeline never swallows a store error.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedis(cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// GetJSON reads a key into out. The second return reports whether the
// key existed.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r == nil || r.client == nil {
		return false, errors.New("redis unavailable")
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON writes a keyed value, last writer wins.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r == nil || r.client == nil {
		return errors.New("redis unavailable")
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		if r.logger != nil {
			r.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
		}
		return err
	}
	return nil
}
