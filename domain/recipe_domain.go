package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes   = "success get recipes"
	MessageSuccessGetRecipe    = "success get recipe detail"
	MessageSuccessCreateRecipe = "recipe created successfully"
	MessageSuccessUpdateRecipe = "recipe updated successfully"
	MessageSuccessDeleteRecipe = "recipe deleted successfully"

	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedGetRecipe    = "failed to get recipe detail"
	MessageFailedCreateRecipe = "failed to create recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedDeleteRecipe = "failed to delete recipe"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrNotRecipeAuthor     = errors.New("only the author may modify this recipe")
	ErrInvalidImagePayload = errors.New("invalid image payload")

	ReasonIngredientsNotUnique = "ingredients are not unique"
	ReasonIngredientsEmpty     = "at least one ingredient is required"
	ReasonIngredientUnknown    = "ingredient does not exist"
	ReasonTagsNotUnique        = "tags are not unique"
	ReasonTagUnknown           = "tag does not exist"
	ReasonCookingTimeTooShort  = "cooking time must be at least 1"
	ReasonAmountTooSmall       = "ingredient amount must be at least 1"
)

type (
	// IngredientAmountRequest is one ordered line of a recipe draft.
	IngredientAmountRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		CookingTime int                       `json:"cooking_time"`
		Tags        []string                  `json:"tags" validate:"dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       string                    `json:"image" validate:"omitempty"`
		CookingTime int                       `json:"cooking_time"`
		Tags        []string                  `json:"tags" validate:"dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	// RecipeSummary is the short representation returned by the favorite and
	// shopping-cart toggles and inside subscription listings.
	RecipeSummary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}
)
