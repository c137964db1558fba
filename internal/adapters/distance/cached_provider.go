package distance

import (
	"context"
	"crypto/sha256"
	"delivery-tour-service/internal/domain"
	"delivery-tour-service/internal/platform/obs"
	"delivery-tour-service/internal/ports"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
)

type named interface {
	Name() string
}

// CachedMatrixProvider serves whole matrices from a MatrixCache and falls back
// to the wrapped provider on a miss. Cache failures are logged and never fail
// the lookup.
type CachedMatrixProvider struct {
	inner ports.DurationMatrixProvider
	cache ports.MatrixCache
	name  string
}

func NewCachedMatrixProvider(inner ports.DurationMatrixProvider, cache ports.MatrixCache) (*CachedMatrixProvider, error) {
	if inner == nil || cache == nil {
		return nil, errors.New("cached matrix provider: inner provider and cache are required")
	}
	return &CachedMatrixProvider{inner: inner, cache: cache, name: providerName(inner)}, nil
}

func providerName(p ports.DurationMatrixProvider) string {
	if n, ok := p.(named); ok {
		return n.Name()
	}
	return "provider"
}

func (c *CachedMatrixProvider) Name() string { return c.name }

// AtSpeed rebinds the wrapped provider. The cache is shared; keys follow the
// rebound provider's name.
func (c *CachedMatrixProvider) AtSpeed(speedKmph float64) (ports.DurationMatrixProvider, bool) {
	inner, ok := ports.AtSpeed(c.inner, speedKmph)
	if !ok {
		return c, false
	}
	if inner == c.inner {
		return c, true
	}
	return &CachedMatrixProvider{inner: inner, cache: c.cache, name: providerName(inner)}, true
}

func (c *CachedMatrixProvider) DurationMatrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ domain.DurationMatrix, err error) {
	defer obs.Time(ctx, "matrix.cache.DurationMatrix")(&err)

	key := MatrixKey(c.name, points)

	m, ok, err := c.cache.GetMatrix(ctx, key)
	if err != nil {
		log.Printf("matrix cache read failed: key=%s err=%v", key, err)
	} else if ok && m.Validate(len(points)) == nil {
		return m, nil
	}

	m, err = c.inner.DurationMatrix(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("cached matrix provider: %w", err)
	}

	if err := c.cache.PutMatrix(ctx, key, m); err != nil {
		log.Printf("matrix cache write failed: key=%s err=%v", key, err)
	}
	return m, nil
}

// MatrixKey derives a cache key from the provider name and the ordered points.
func MatrixKey(provider string, points []domain.Coordinates) string {
	keys := make([]string, len(points))
	for i, p := range points {
		keys[i] = p.Key()
	}
	sum := sha256.Sum256([]byte(strings.Join(keys, ";")))
	return provider + ":" + hex.EncodeToString(sum[:16])
}
