package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ratecard-service/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Client owns the Redis connection backing the cache coordinator.
type Client struct {
	client *redis.Client
}

// Connect dials Redis from config and verifies the connection with a bounded
// ping before handing it out, so cache wiring fails at startup rather than on
// the first request.
func Connect(cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("Redis ping failed", "addr", client.Options().Addr, "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", client.Options().Addr, "db", cfg.DB)
	return &Client{client: client}, nil
}

// GetClient exposes the underlying go-redis client for the cache store.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
