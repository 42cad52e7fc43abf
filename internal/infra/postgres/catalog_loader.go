package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"assessment-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads category sets (JSONB, one row per category) from
// Postgres. Row order defines catalog iteration order, which downstream
// tie-breaking depends on.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) ([]domain.Category, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM catalog_sets ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		var cat domain.Category
		if err := json.Unmarshal(raw, &cat); err != nil {
			return nil, fmt.Errorf("unmarshal category: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	if len(cats) == 0 {
		return nil, domain.ErrCatalogEmpty
	}
	return cats, nil
}
