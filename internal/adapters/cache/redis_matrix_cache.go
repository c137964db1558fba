package cache

import (
	"context"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/platform/obs"
	"delivery-tour-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ ports.MatrixCache = (*RedisMatrixCache)(nil)

const DefaultMatrixTTL = 24 * time.Hour

// RedisMatrixCache stores whole duration matrices as JSON values with a TTL.
type RedisMatrixCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisMatrixCache prefixes every key with prefix. A ttl of zero keeps the default.
func NewRedisMatrixCache(client redis.Cmdable, prefix string, ttl time.Duration) *RedisMatrixCache {
	if ttl <= 0 {
		ttl = DefaultMatrixTTL
	}
	return &RedisMatrixCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisMatrixCache) GetMatrix(ctx context.Context, key string) (_ domain.DurationMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.GetMatrix")(&err)

	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: %w", err)
	}

	var m domain.DurationMatrix
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, false, fmt.Errorf("get matrix cache: decode %q: %w", key, err)
	}
	return m, true, nil
}

func (c *RedisMatrixCache) PutMatrix(ctx context.Context, key string, m domain.DurationMatrix) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("put matrix cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put matrix cache: %w", err)
	}
	return nil
}
