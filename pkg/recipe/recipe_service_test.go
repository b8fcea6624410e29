package recipe

import (
	"context"
	"encoding/base64"
	"io"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/catalog"
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

func newTestService(t *testing.T, db *gorm.DB) RecipeService {
	t.Helper()
	return NewRecipeService(
		NewRecipeRepository(db),
		catalog.NewCatalogRepository(db),
		user.NewUserRepository(db),
		&fakeUploader{},
	)
}

type fakeUploader struct{}

func (f *fakeUploader) UploadPublicFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
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

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	i := &entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(i).Error)
	return i
}

func seedTag(t *testing.T, db *gorm.DB, name string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{ID: uuid.New(), Name: name, Slug: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

var testImage = base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

func TestCreateRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "chef")
	salt := seedIngredient(t, db, "Salt", "g")
	sugar := seedIngredient(t, db, "Sugar", "kg")
	breakfast := seedTag(t, db, "breakfast")
	dinner := seedTag(t, db, "dinner")

	res, err := svc.Create(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       testImage,
		CookingTime: 15,
		Tags:        []string{breakfast.ID.String(), dinner.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{
			{ID: salt.ID.String(), Amount: 10},
			{ID: sugar.ID.String(), Amount: 5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", res.Name)
	assert.Equal(t, 15, res.CookingTime)
	assert.Equal(t, "chef", res.Author.Username)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)
	assert.Contains(t, res.Image, "https://cdn.test/recipes/")
	assert.Len(t, res.Tags, 2)

	// ingredient lines keep draft order
	require.Len(t, res.Ingredients, 2)
	assert.Equal(t, "Salt", res.Ingredients[0].Name)
	assert.Equal(t, 10, res.Ingredients[0].Amount)
	assert.Equal(t, "Sugar", res.Ingredients[1].Name)
	assert.Equal(t, 5, res.Ingredients[1].Amount)
}

func TestCreateRecipeDraftValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "chef")
	salt := seedIngredient(t, db, "Salt", "g")
	breakfast := seedTag(t, db, "breakfast")

	valid := func() domain.CreateRecipeRequest {
		return domain.CreateRecipeRequest{
			Name:        "Soup",
			Text:        "Boil.",
			Image:       testImage,
			CookingTime: 30,
			Tags:        []string{breakfast.ID.String()},
			Ingredients: []domain.IngredientAmountRequest{{ID: salt.ID.String(), Amount: 2}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.CreateRecipeRequest)
		field  string
		reason string
	}{
		{
			name:   "no ingredients",
			mutate: func(r *domain.CreateRecipeRequest) { r.Ingredients = nil },
			field:  "ingredients",
			reason: domain.ReasonIngredientsEmpty,
		},
		{
			name: "duplicate ingredient",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Ingredients = append(r.Ingredients, domain.IngredientAmountRequest{ID: salt.ID.String(), Amount: 3})
			},
			field:  "ingredients",
			reason: domain.ReasonIngredientsNotUnique,
		},
		{
			name:   "zero amount",
			mutate: func(r *domain.CreateRecipeRequest) { r.Ingredients[0].Amount = 0 },
			field:  "ingredients",
			reason: domain.ReasonAmountTooSmall,
		},
		{
			name:   "unknown ingredient",
			mutate: func(r *domain.CreateRecipeRequest) { r.Ingredients[0].ID = uuid.NewString() },
			field:  "ingredients",
			reason: domain.ReasonIngredientUnknown,
		},
		{
			name: "duplicate tag",
			mutate: func(r *domain.CreateRecipeRequest) {
				r.Tags = append(r.Tags, breakfast.ID.String())
			},
			field:  "tags",
			reason: domain.ReasonTagsNotUnique,
		},
		{
			name:   "unknown tag",
			mutate: func(r *domain.CreateRecipeRequest) { r.Tags = []string{uuid.NewString()} },
			field:  "tags",
			reason: domain.ReasonTagUnknown,
		},
		{
			name:   "zero cooking time",
			mutate: func(r *domain.CreateRecipeRequest) { r.CookingTime = 0 },
			field:  "cooking_time",
			reason: domain.ReasonCookingTimeTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			_, err := svc.Create(ctx, author.ID.String(), req)

			var fieldErr *domain.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Equal(t, tt.reason, fieldErr.Message)
		})
	}

	// nothing may be persisted by a rejected draft
	var count int64
	require.NoError(t, db.Model(&entities.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateRecipeReplacesComposition(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "chef")
	salt := seedIngredient(t, db, "Salt", "g")
	sugar := seedIngredient(t, db, "Sugar", "kg")
	flour := seedIngredient(t, db, "Flour", "g")
	breakfast := seedTag(t, db, "breakfast")
	dinner := seedTag(t, db, "dinner")

	created, err := svc.Create(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		Image:       testImage,
		CookingTime: 15,
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{
			{ID: salt.ID.String(), Amount: 10},
			{ID: sugar.ID.String(), Amount: 5},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, author.ID.String(), domain.RoleUser, domain.UpdateRecipeRequest{
		Name:        "Flatbread",
		Text:        "Knead and bake.",
		CookingTime: 40,
		Tags:        []string{dinner.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{{ID: flour.ID.String(), Amount: 300}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Flatbread", updated.Name)
	assert.Equal(t, 40, updated.CookingTime)
	// omitted image keeps the stored one
	assert.Equal(t, created.Image, updated.Image)

	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Flour", updated.Ingredients[0].Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Name)

	// the old composition leaves no rows behind
	var lineCount int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).
		Where("recipe_id = ?", created.ID).Count(&lineCount).Error)
	assert.EqualValues(t, 1, lineCount)

	var tagCount int64
	require.NoError(t, db.Table("recipe_tags").
		Where("recipe_id = ?", created.ID).Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount)
}

func TestUpdateRecipeAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "chef")
	stranger := seedUser(t, db, "stranger")
	admin := seedUser(t, db, "admin")
	salt := seedIngredient(t, db, "Salt", "g")

	req := domain.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "Boil.",
		Image:       testImage,
		CookingTime: 30,
		Ingredients: []domain.IngredientAmountRequest{{ID: salt.ID.String(), Amount: 2}},
	}
	created, err := svc.Create(ctx, author.ID.String(), req)
	require.NoError(t, err)

	update := domain.UpdateRecipeRequest{
		Name:        "Stew",
		Text:        "Simmer.",
		CookingTime: 60,
		Ingredients: []domain.IngredientAmountRequest{{ID: salt.ID.String(), Amount: 4}},
	}

	_, err = svc.Update(ctx, created.ID, stranger.ID.String(), domain.RoleUser, update)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	err = svc.Delete(ctx, created.ID, stranger.ID.String(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

	// admins may modify any recipe
	_, err = svc.Update(ctx, created.ID, admin.ID.String(), domain.RoleAdmin, update)
	assert.NoError(t, err)
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "chef")
	fan := seedUser(t, db, "fan")
	salt := seedIngredient(t, db, "Salt", "g")
	breakfast := seedTag(t, db, "breakfast")

	created, err := svc.Create(ctx, author.ID.String(), domain.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "Boil.",
		Image:       testImage,
		CookingTime: 30,
		Tags:        []string{breakfast.ID.String()},
		Ingredients: []domain.IngredientAmountRequest{{ID: salt.ID.String(), Amount: 2}},
	})
	require.NoError(t, err)
	recipeID := uuid.MustParse(created.ID)

	require.NoError(t, db.Create(&entities.Favorite{
		ID: uuid.New(), UserID: fan.ID, RecipeID: recipeID, CreatedAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&entities.ShoppingCart{
		ID: uuid.New(), UserID: fan.ID, RecipeID: recipeID, CreatedAt: time.Now(),
	}).Error)

	require.NoError(t, svc.Delete(ctx, created.ID, author.ID.String(), domain.RoleUser))

	_, err = svc.GetByID(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	for _, model := range []any{
		&entities.RecipeIngredient{}, &entities.Favorite{}, &entities.ShoppingCart{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipeID).Count(&count).Error)
		assert.Zero(t, count)
	}

	err = svc.Delete(ctx, created.ID, author.ID.String(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestListRecipesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	author := seedUser(t, db, "chef")
	base := time.Now()
	for i, name := range []string{"First", "Second", "Third"} {
		require.NoError(t, db.Create(&entities.Recipe{
			ID:          uuid.New(),
			AuthorID:    author.ID,
			Name:        name,
			Text:        "...",
			CookingTime: 5,
			PubDate:     base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	recipes, count, err := svc.List(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Third", recipes[0].Name)
	assert.Equal(t, "Second", recipes[1].Name)

	recipes, _, err = svc.List(ctx, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "First", recipes[0].Name)
}
