package geocoding_service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/init-pkg/meal-routes/domain/app"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

type MemoryCache struct {
	mu     sync.RWMutex
	places map[string]app.Place
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{places: make(map[string]app.Place)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*app.Place, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.places[key]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, place *app.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.places[key] = *place
	return nil
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client, ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*app.Place, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "redis get")
	}

	var place app.Place
	if err := json.Unmarshal(raw, &place); err != nil {
		return nil, false, eris.Wrap(err, "decode cached place")
	}
	return &place, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, place *app.Place) error {
	raw, err := json.Marshal(place)
	if err != nil {
		return eris.Wrap(err, "encode place")
	}
	return eris.Wrap(c.client.Set(ctx, key, raw, c.ttl).Err(), "redis set")
}
