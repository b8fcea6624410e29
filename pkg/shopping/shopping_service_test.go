package shopping

import (
	"context"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.ShoppingCart{},
	))
	return db
}

// fillCart builds a two-recipe cart: Soup (Salt 10, Sugar 5) added first,
// Brine (Salt 20) second.
func fillCart(t *testing.T, db *gorm.DB) *entities.User {
	t.Helper()

	buyer := &entities.User{ID: uuid.New(), Email: "buyer@example.com", Username: "buyer"}
	require.NoError(t, db.Create(buyer).Error)

	salt := &entities.Ingredient{ID: uuid.New(), Name: "Salt", MeasurementUnit: "g"}
	sugar := &entities.Ingredient{ID: uuid.New(), Name: "Sugar", MeasurementUnit: "kg"}
	require.NoError(t, db.Create(salt).Error)
	require.NoError(t, db.Create(sugar).Error)

	soup := &entities.Recipe{
		ID: uuid.New(), AuthorID: buyer.ID, Name: "Soup",
		Text: "...", CookingTime: 10, PubDate: time.Now(),
	}
	brine := &entities.Recipe{
		ID: uuid.New(), AuthorID: buyer.ID, Name: "Brine",
		Text: "...", CookingTime: 5, PubDate: time.Now(),
	}
	require.NoError(t, db.Create(soup).Error)
	require.NoError(t, db.Create(brine).Error)

	lines := []entities.RecipeIngredient{
		{ID: uuid.New(), RecipeID: soup.ID, IngredientID: salt.ID, Amount: 10, Position: 0},
		{ID: uuid.New(), RecipeID: soup.ID, IngredientID: sugar.ID, Amount: 5, Position: 1},
		{ID: uuid.New(), RecipeID: brine.ID, IngredientID: salt.ID, Amount: 20, Position: 0},
	}
	require.NoError(t, db.Create(&lines).Error)

	base := time.Now()
	require.NoError(t, db.Create(&entities.ShoppingCart{
		ID: uuid.New(), UserID: buyer.ID, RecipeID: soup.ID, CreatedAt: base,
	}).Error)
	require.NoError(t, db.Create(&entities.ShoppingCart{
		ID: uuid.New(), UserID: buyer.ID, RecipeID: brine.ID, CreatedAt: base.Add(time.Second),
	}).Error)

	return buyer
}

func TestAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingService(NewShoppingRepository(db), NewShoppingListRenderer(nil))
	buyer := fillCart(t, db)

	items, err := svc.Aggregate(context.Background(), buyer.ID.String())
	require.NoError(t, err)

	// one entry per distinct name, amounts summed, first-encounter order
	require.Len(t, items, 2)
	assert.Equal(t, domain.ShoppingItem{Name: "Salt", MeasurementUnit: "g", Amount: 30}, items[0])
	assert.Equal(t, domain.ShoppingItem{Name: "Sugar", MeasurementUnit: "kg", Amount: 5}, items[1])
}

func TestAggregateEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingService(NewShoppingRepository(db), NewShoppingListRenderer(nil))

	loner := &entities.User{ID: uuid.New(), Email: "loner@example.com", Username: "loner"}
	require.NoError(t, db.Create(loner).Error)

	items, err := svc.Aggregate(context.Background(), loner.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDownloadShoppingList(t *testing.T) {
	db := newTestDB(t)
	svc := NewShoppingService(NewShoppingRepository(db), NewShoppingListRenderer(nil))
	buyer := fillCart(t, db)

	document, err := svc.DownloadShoppingList(context.Background(), buyer.ID.String())
	require.NoError(t, err)
	require.NotEmpty(t, document)
	assert.Equal(t, "%PDF", string(document[:4]))
}
