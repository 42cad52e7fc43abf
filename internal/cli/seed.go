package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"assessment-service/internal/config"
	"assessment-service/internal/domain"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"gopkg.in/yaml.v3"
)

// NewSeedCmd loads category sets from a YAML file into catalog_sets.
func NewSeedCmd(configPath *string) *cobra.Command {
	var seedFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the question catalog from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, seedFile)
		},
	}
	cmd.Flags().StringVar(&seedFile, "file", "config/catalog.yaml", "path to the catalog YAML file")
	return cmd
}

// seedCategory mirrors domain.Category with yaml tags for the seed file.
type seedCategory struct {
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Questions   []struct {
		ID   string `yaml:"id"`
		Text string `yaml:"text"`
	} `yaml:"questions"`
}

func runSeed(ctx context.Context, configPath, seedFile string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seeds []seedCategory
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("seed file contains no category sets")
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	for i, seed := range seeds {
		cat := domain.Category{
			Name:        seed.Category,
			Description: seed.Description,
		}
		for _, q := range seed.Questions {
			cat.Questions = append(cat.Questions, domain.Question{ID: q.ID, Text: q.Text})
		}
		data, err := json.Marshal(cat)
		if err != nil {
			return fmt.Errorf("marshal category %q: %w", cat.Name, err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO catalog_sets (category, position, data) VALUES (?, ?, ?::jsonb)
			 ON CONFLICT (category) DO UPDATE SET position = EXCLUDED.position, data = EXCLUDED.data`,
			cat.Name, i, string(data),
		)
		if err != nil {
			return fmt.Errorf("upsert category %q: %w", cat.Name, err)
		}
	}
	log.Printf("seeded %d category sets", len(seeds))
	return nil
}
