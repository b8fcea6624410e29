package handlers

import (
	"errors"

	"foodgram-backend/domain"

	"github.com/gofiber/fiber/v2"
)

// statusCode maps domain errors to HTTP statuses: unknown targets are 404,
// authorization failures 403, everything else in the validation taxonomy
// (field errors, duplicate relations, self-follow) is a 400.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotRecipeAuthor),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadRequest
	}
}
