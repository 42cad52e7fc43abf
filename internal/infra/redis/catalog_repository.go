package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const catalogKey = "assessment:catalog"

// CatalogLoader fetches the question catalog from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.Category, error)
}

// CatalogRepository caches the whole catalog as one JSON value in Redis and
// falls back to a loader on cache miss. The catalog is small and read-mostly,
// so a single key keeps invalidation trivial.
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) ([]domain.Category, error) {
	if cats, ok := r.fromCache(ctx); ok {
		return cats, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cats, ok := r.fromCache(ctx); ok {
			return cats, nil
		}

		cats, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(cats)
		if err != nil {
			return nil, fmt.Errorf("marshal catalog: %w", err)
		}
		// Cache fill is best-effort; a failed SET just means the next
		// reader hits the loader again.
		_ = r.client.Set(ctx, catalogKey, raw, r.ttlWithJitter()).Err()
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context) ([]domain.Category, bool) {
	raw, err := r.client.Get(ctx, catalogKey).Bytes()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var cats []domain.Category
	if err := json.Unmarshal(raw, &cats); err != nil {
		return nil, false
	}
	return cats, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
