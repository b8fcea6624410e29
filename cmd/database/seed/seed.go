package seed

import (
	"context"
	"fmt"
	"os"

	"foodgram-backend/internal/utils"
	"foodgram-backend/pkg/catalog"

	"gorm.io/gorm"
)

// SeedIngredients loads the reference ingredient catalog from the CSV named
// in the config. Missing config is not an error; the seed is simply skipped.
func SeedIngredients(ctx context.Context, db *gorm.DB) error {
	path := utils.GetConfig("INGREDIENTS_CSV")
	if path == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ingredients csv: %w", err)
	}
	defer file.Close()

	catalogService := catalog.NewCatalogService(catalog.NewCatalogRepository(db))
	seeded, err := catalogService.SeedIngredients(ctx, file)
	if err != nil {
		return fmt.Errorf("seed ingredients: %w", err)
	}

	fmt.Printf("Seeded %d ingredients\n", seeded)
	return nil
}
