package recipe

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/storage"
	"foodgram-backend/pkg/catalog"
	"foodgram-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		Create(ctx context.Context, authorID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		Update(ctx context.Context, recipeID, actingUserID, role string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error)
		Delete(ctx context.Context, recipeID, actingUserID, role string) error
		GetByID(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error)
		List(ctx context.Context, viewerID string, page, limit int) ([]domain.RecipeResponse, int64, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		userRepository    user.UserRepository
		uploader          storage.Uploader
	}

	// composition is a validated draft resolved against reference data,
	// ready to persist.
	composition struct {
		tags  []entities.Tag
		lines []entities.RecipeIngredient
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	userRepository user.UserRepository,
	uploader storage.Uploader,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		userRepository:    userRepository,
		uploader:          uploader,
	}
}

func (s *recipeService) Create(ctx context.Context, authorID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	recipeID := uuid.New()
	comp, err := s.resolveDraft(ctx, recipeID, req.Tags, req.Ingredients, req.CookingTime)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL, err := s.uploadImage(ctx, recipeID, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := entities.Recipe{
		ID:          recipeID,
		AuthorID:    authorUUID,
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		PubDate:     time.Now(),
	}

	if err := s.recipeRepository.CreateRecipe(ctx, &recipe, comp.lines, comp.tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetByID(ctx, recipeID.String(), authorID)
}

func (s *recipeService) Update(ctx context.Context, recipeID, actingUserID, role string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error) {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if existing.AuthorID.String() != actingUserID && role != domain.RoleAdmin {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	comp, err := s.resolveDraft(ctx, existing.ID, req.Tags, req.Ingredients, req.CookingTime)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL := existing.ImageURL
	if req.Image != "" {
		imageURL, err = s.uploadImage(ctx, existing.ID, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	updated := entities.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		PubDate:     existing.PubDate,
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, &updated, comp.lines, comp.tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetByID(ctx, recipeID, actingUserID)
}

func (s *recipeService) Delete(ctx context.Context, recipeID, actingUserID, role string) error {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if existing.AuthorID.String() != actingUserID && role != domain.RoleAdmin {
		return domain.ErrNotRecipeAuthor
	}

	return s.recipeRepository.DeleteRecipe(ctx, existing.ID)
}

func (s *recipeService) GetByID(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	return s.toResponse(ctx, recipe, viewerID)
}

func (s *recipeService) List(ctx context.Context, viewerID string, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res, err := s.toResponse(ctx, recipe, viewerID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}

	return result, count, nil
}

// resolveDraft validates the draft before anything is persisted and resolves
// tag and ingredient references against the catalog. Failures are tagged with
// the offending field.
func (s *recipeService) resolveDraft(ctx context.Context, recipeID uuid.UUID, tagIDs []string, ingredients []domain.IngredientAmountRequest, cookingTime int) (composition, error) {
	if len(ingredients) == 0 {
		return composition{}, domain.NewFieldError("ingredients", domain.ReasonIngredientsEmpty)
	}

	seenIngredients := make(map[string]bool, len(ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(ingredients))
	for _, line := range ingredients {
		if seenIngredients[line.ID] {
			return composition{}, domain.NewFieldError("ingredients", domain.ReasonIngredientsNotUnique)
		}
		seenIngredients[line.ID] = true

		if line.Amount < 1 {
			return composition{}, domain.NewFieldError("ingredients", domain.ReasonAmountTooSmall)
		}

		id, err := uuid.Parse(line.ID)
		if err != nil {
			return composition{}, domain.NewFieldError("ingredients", domain.ReasonIngredientUnknown)
		}
		ingredientIDs = append(ingredientIDs, id)
	}

	seenTags := make(map[string]bool, len(tagIDs))
	tagUUIDs := make([]uuid.UUID, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		if seenTags[tagID] {
			return composition{}, domain.NewFieldError("tags", domain.ReasonTagsNotUnique)
		}
		seenTags[tagID] = true

		id, err := uuid.Parse(tagID)
		if err != nil {
			return composition{}, domain.NewFieldError("tags", domain.ReasonTagUnknown)
		}
		tagUUIDs = append(tagUUIDs, id)
	}

	if cookingTime <= 0 {
		return composition{}, domain.NewFieldError("cooking_time", domain.ReasonCookingTimeTooShort)
	}

	resolved, err := s.catalogRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return composition{}, err
	}
	if len(resolved) != len(ingredientIDs) {
		return composition{}, domain.NewFieldError("ingredients", domain.ReasonIngredientUnknown)
	}

	tags, err := s.catalogRepository.GetTagsByIDs(ctx, tagUUIDs)
	if err != nil {
		return composition{}, err
	}
	if len(tags) != len(tagUUIDs) {
		return composition{}, domain.NewFieldError("tags", domain.ReasonTagUnknown)
	}

	lines := make([]entities.RecipeIngredient, 0, len(ingredients))
	for i, line := range ingredients {
		lines = append(lines, entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: ingredientIDs[i],
			Amount:       line.Amount,
			Position:     i,
		})
	}

	return composition{tags: tags, lines: lines}, nil
}

// uploadImage decodes a base64 image payload, with or without a data URI
// prefix, and stores it publicly.
func (s *recipeService) uploadImage(ctx context.Context, recipeID uuid.UUID, payload string) (string, error) {
	contentType := "image/png"
	ext := "png"

	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		header, rest, found := strings.Cut(payload, ";base64,")
		if !found {
			return "", domain.ErrInvalidImagePayload
		}
		contentType = strings.TrimPrefix(header, "data:")
		if _, sub, ok := strings.Cut(contentType, "/"); ok {
			ext = sub
		}
		encoded = rest
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", domain.ErrInvalidImagePayload
	}

	key := fmt.Sprintf("recipes/%s.%s", recipeID, ext)
	return s.uploader.UploadPublicFile(ctx, key, bytes.NewReader(data), contentType)
}

func (s *recipeService) toResponse(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for i := range recipe.Tags {
		tags = append(tags, catalog.ToTagResponse(&recipe.Tags[i]))
	}

	lines := make([]domain.RecipeIngredientResponse, 0, len(recipe.Lines))
	for _, line := range recipe.Lines {
		res := domain.RecipeIngredientResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			res.Name = line.Ingredient.Name
			res.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		lines = append(lines, res)
	}

	var author domain.UserResponse
	if recipe.Author != nil {
		isSubscribed := false
		if viewerID != "" && viewerID != recipe.AuthorID.String() {
			var err error
			isSubscribed, err = s.userRepository.IsSubscribed(ctx, viewerID, recipe.AuthorID.String())
			if err != nil {
				return domain.RecipeResponse{}, err
			}
		}
		author = user.ToResponse(recipe.Author, isSubscribed)
	}

	// Anonymous viewers always see both flags as false.
	isFavorited, isInCart := false, false
	if viewerID != "" {
		var err error
		if isFavorited, err = s.recipeRepository.IsFavorited(ctx, viewerID, recipe.ID.String()); err != nil {
			return domain.RecipeResponse{}, err
		}
		if isInCart, err = s.recipeRepository.IsInCart(ctx, viewerID, recipe.ID.String()); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Tags:             tags,
		Author:           author,
		Ingredients:      lines,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

// ToSummary is the short recipe representation shared by the favorite and
// shopping-cart toggles and by subscription listings.
func ToSummary(recipe *entities.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
