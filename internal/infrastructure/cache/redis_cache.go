package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/application/sales"
)

const statsKey = "stockpilot:sales:stats"

var _ sales.StatsCache = (*RedisStatsCache)(nil)

// RedisStatsCache guarda la foto de estadísticas de ventas en Redis con TTL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	key    string
}

// NewRedisStatsCache crea el cliente. ttl <= 0 usa 60 segundos.
func NewRedisStatsCache(addr, password string, db int, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStatsCache{client: client, ttl: ttl, key: statsKey}
}

// WithKeyPrefix antepone prefix a la clave (aísla entornos o tests sobre el mismo Redis).
func (c *RedisStatsCache) WithKeyPrefix(prefix string) *RedisStatsCache {
	c.key = prefix + statsKey
	return c
}

func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

func (c *RedisStatsCache) Get(ctx context.Context) (*dto.SaleStatsResponse, bool, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp dto.SaleStatsResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, stats *dto.SaleStatsResponse) error {
	if stats == nil {
		return nil
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, payload, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
