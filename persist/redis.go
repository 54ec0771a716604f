package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/phanxgames/tether"
)

// DefaultRedisKey is the key Redis backends store the list under.
const DefaultRedisKey = "tether:stored-tips"

// Redis stores the list as one JSON document under a key.
type Redis struct {
	client *redis.Client
	key    string
}

// OpenRedis connects to the server named by a redis:// URL and checks the
// connection.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, DefaultRedisKey), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{client: client, key: key}
}

// Load implements Backend.
func (r *Redis) Load(ctx context.Context) ([]tether.StoredTip, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	return Unmarshal(data, "json")
}

// Save implements Backend.
func (r *Redis) Save(ctx context.Context, tips []tether.StoredTip) error {
	data, err := json.Marshal(newDocument(tips))
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

// Close implements Backend.
func (r *Redis) Close() error { return r.client.Close() }
