package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the question catalog from a backing store.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.Category, error)
}

// CatalogRepository caches the catalog with a TTL to avoid repeated DB hits.
// The catalog is read-mostly; one cache entry covers the whole thing.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Category
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) ([]domain.Category, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		cats := r.cached
		r.mu.RUnlock()
		return cats, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			cats := r.cached
			r.mu.RUnlock()
			return cats, nil
		}
		r.mu.RUnlock()

		cats, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = cats
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader serves a fixed catalog (useful for tests/demos and the
// no-database mode).
type StaticCatalogLoader struct {
	cats []domain.Category
}

func NewStaticCatalogLoader(cats []domain.Category) *StaticCatalogLoader {
	return &StaticCatalogLoader{cats: cats}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.Category, error) {
	if len(l.cats) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	return l.cats, nil
}
