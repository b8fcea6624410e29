package relation

import (
	"context"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/recipe"
	"foodgram-backend/pkg/user"

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
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
		&entities.Subscription{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) RelationService {
	t.Helper()
	return NewRelationService(
		NewRelationRepository(db),
		recipe.NewRecipeRepository(db),
		user.NewUserRepository(db),
	)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "...",
		CookingTime: 10,
		PubDate:     time.Now(),
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestFavoriteToggle(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	chef := seedUser(t, db, "chef")
	fan := seedUser(t, db, "fan")
	soup := seedRecipe(t, db, chef, "Soup")

	summary, err := svc.AddFavorite(ctx, fan.ID.String(), soup.ID.String())
	require.NoError(t, err)
	assert.Equal(t, soup.ID.String(), summary.ID)
	assert.Equal(t, "Soup", summary.Name)

	_, err = svc.AddFavorite(ctx, fan.ID.String(), soup.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	require.NoError(t, svc.RemoveFavorite(ctx, fan.ID.String(), soup.ID.String()))

	err = svc.RemoveFavorite(ctx, fan.ID.String(), soup.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFavorited)

	// removing clears the edge, so a fresh add succeeds
	_, err = svc.AddFavorite(ctx, fan.ID.String(), soup.ID.String())
	assert.NoError(t, err)
}

func TestCartToggle(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	chef := seedUser(t, db, "chef")
	fan := seedUser(t, db, "fan")
	soup := seedRecipe(t, db, chef, "Soup")

	summary, err := svc.AddToCart(ctx, fan.ID.String(), soup.ID.String())
	require.NoError(t, err)
	assert.Equal(t, soup.ID.String(), summary.ID)

	_, err = svc.AddToCart(ctx, fan.ID.String(), soup.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyInCart)

	require.NoError(t, svc.RemoveFromCart(ctx, fan.ID.String(), soup.ID.String()))

	err = svc.RemoveFromCart(ctx, fan.ID.String(), soup.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotInCart)
}

func TestToggleUnknownRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	fan := seedUser(t, db, "fan")
	missing := uuid.NewString()

	_, err := svc.AddFavorite(ctx, fan.ID.String(), missing)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	err = svc.RemoveFavorite(ctx, fan.ID.String(), missing)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = svc.AddToCart(ctx, fan.ID.String(), missing)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestSubscribe(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	chef := seedUser(t, db, "chef")
	fan := seedUser(t, db, "fan")
	seedRecipe(t, db, chef, "Soup")

	res, err := svc.Subscribe(ctx, fan.ID.String(), chef.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "chef", res.Username)
	assert.True(t, res.IsSubscribed)
	assert.Equal(t, 1, res.RecipesCount)
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Soup", res.Recipes[0].Name)

	_, err = svc.Subscribe(ctx, fan.ID.String(), chef.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	subs, err := svc.GetSubscriptions(ctx, fan.ID.String())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "chef", subs[0].Username)

	require.NoError(t, svc.Unsubscribe(ctx, fan.ID.String(), chef.ID.String()))

	err = svc.Unsubscribe(ctx, fan.ID.String(), chef.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotSubscribed)
}

func TestSubscribeToSelf(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	chef := seedUser(t, db, "chef")

	// rejected outright, even before any lookup
	_, err := svc.Subscribe(ctx, chef.ID.String(), chef.ID.String())
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	fan := seedUser(t, db, "fan")

	_, err := svc.Subscribe(ctx, fan.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = svc.Unsubscribe(ctx, fan.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
