package shopping

import (
	"context"

	"gorm.io/gorm"
)

type (
	// CartLine is one raw ingredient line pulled from the user's cart before
	// aggregation.
	CartLine struct {
		Name            string
		MeasurementUnit string
		Amount          int
	}

	ShoppingRepository interface {
		GetCartLines(ctx context.Context, userID string) ([]CartLine, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

// GetCartLines joins the user's cart entries through recipes to their
// ingredient lines. Rows come back in cart insertion order, then line order
// within each recipe, which fixes the first-encounter order the aggregation
// depends on.
func (r *shoppingRepository) GetCartLines(ctx context.Context, userID string) ([]CartLine, error) {
	var lines []CartLine
	if err := r.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name, ingredients.measurement_unit, recipe_ingredients.amount").
		Joins("JOIN recipes ON recipes.id = shopping_carts.recipe_id").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("shopping_carts.created_at asc, recipe_ingredients.position asc").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
