package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client and fails safe: connectivity errors behave like
// a cache miss and are only logged. A nil *Client is a valid, disabled cache.
type Client struct {
	client *redis.Client
	logger *slog.Logger
}

func New(addr, password string, db int, logger *slog.Logger) *Client {
	if addr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
	return &Client{client: redis.NewClient(opts), logger: logger}
}

func (c *Client) enabled() bool {
	return c != nil && c.client != nil
}

func (c *Client) warn(msg, key string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, "key", key, "error", err)
	}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.enabled() {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.warn("cache get failed", key, err)
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.warn("cache set failed", key, err)
	}
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.warn("cache delete failed", keys[0], err)
	}
	return nil
}

// GetJSON decodes a cached value into dst. It reports false on a miss or an
// undecodable entry.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.warn("cache entry is not valid json", key, err)
		return false
	}
	return true
}

func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, payload, ttl)
}

// Ping reports whether redis is reachable. A disabled cache is never healthy.
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled() {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}
