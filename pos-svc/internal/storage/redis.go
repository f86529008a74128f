package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"tpv-system/pos-svc/internal/domain"
	"tpv-system/pos-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

const menuKeyPrefix = "menu:products:"

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) MenuKey(locationID int) string {
	return menuKeyPrefix + strconv.Itoa(locationID)
}

func (c *RedisCache) GetMenu(ctx context.Context, locationID int) ([]domain.Product, bool, error) {
	raw, err := c.Client.Get(ctx, c.MenuKey(locationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

func (c *RedisCache) SetMenu(ctx context.Context, locationID int, products []domain.Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.MenuKey(locationID), payload, c.TTL).Err()
}

// InvalidateMenu drops the cached menu of every location.
func (c *RedisCache) InvalidateMenu(ctx context.Context) error {
	iter := c.Client.Scan(ctx, 0, menuKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

var _ service.MenuCache = (*RedisCache)(nil)
