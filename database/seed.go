package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/hamim5264/devengine/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed/catalog.json
var seedCatalog []byte

type catalogSeed struct {
	Tags     []models.Tag     `json:"tags"`
	Projects []models.Project `json:"projects"`
}

func loadCatalogSeed() (catalogSeed, error) {
	var seed catalogSeed
	if err := json.Unmarshal(seedCatalog, &seed); err != nil {
		return catalogSeed{}, fmt.Errorf("decode catalog seed: %w", err)
	}
	return seed, nil
}

// SeedCatalog inserts the starter tags and projects. Rows that already exist
// are skipped, so running it twice is harmless.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	seed, err := loadCatalogSeed()
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(seed.Tags) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed.Tags).Error; err != nil {
				return fmt.Errorf("seed tags: %w", err)
			}
		}
		if len(seed.Projects) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed.Projects).Error; err != nil {
				return fmt.Errorf("seed projects: %w", err)
			}
		}
		log.Info().Int("tags", len(seed.Tags)).Int("projects", len(seed.Projects)).Msg("catalog seed applied")
		return nil
	})
}
