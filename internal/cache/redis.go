package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefix for cached neighbor lists
const neighborKeyPrefix = "neighbors:"

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{
		client: client,
	}, nil
}

// GetNeighbors retrieves a cached neighbor list by key
func (c *RedisCache) GetNeighbors(ctx context.Context, key string) ([]Neighbor, error) {
	data, err := c.client.Get(ctx, neighborKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var neighbors []Neighbor
	if err := json.Unmarshal(data, &neighbors); err != nil {
		return nil, err
	}
	return neighbors, nil
}

// SetNeighbors stores a neighbor list with TTL
func (c *RedisCache) SetNeighbors(ctx context.Context, key string, neighbors []Neighbor, ttl time.Duration) error {
	data, err := json.Marshal(neighbors)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, neighborKeyPrefix+key, data, ttl).Err()
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
