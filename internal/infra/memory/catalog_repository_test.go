package memory

import (
	"context"
	"testing"
	"time"

	"assessment-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(sampleCatalog()),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderEmptyCatalog(t *testing.T) {
	loader := NewStaticCatalogLoader(nil)
	if _, err := loader.LoadCatalog(context.Background()); err != domain.ErrCatalogEmpty {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
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
			Questions:   []domain.Question{{ID: "1", Text: "Q one"}, {ID: "2", Text: "Q two"}},
		},
		{
			Name:      "B",
			Questions: []domain.Question{{ID: "3", Text: "Q three"}},
		},
	}
}
