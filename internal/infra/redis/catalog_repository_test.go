package redis

import (
	"context"
	"testing"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(sampleCatalog()),
	}
	repo := NewCatalogRepository(client, loader, time.Minute)

	cats, err := repo.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "A" {
		t.Fatalf("unexpected catalog: %+v", cats)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("assessment:catalog") {
		t.Fatal("expected catalog key in redis")
	}

	// Second call should hit the redis cache, loader not incremented.
	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestCatalogRepositoryReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(sampleCatalog()),
	}
	repo := NewCatalogRepository(client, loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) ([]domain.Category, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleCatalog() []domain.Category {
	return []domain.Category{
		{
			Name:        "A",
			Description: "Foundations.",
			Questions:   []domain.Question{{ID: "1", Text: "Q one"}},
		},
		{
			Name:      "B",
			Questions: []domain.Question{{ID: "2", Text: "Q two"}},
		},
	}
}
