package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/relation"

	"github.com/gofiber/fiber/v2"
)

type (
	RelationHandler interface {
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
	}

	relationHandler struct {
		relationService relation.RelationService
	}
)

func NewRelationHandler(relationService relation.RelationService) RelationHandler {
	return &relationHandler{relationService: relationService}
}

func (h *relationHandler) AddFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.relationService.AddFavorite(c.Context(), userID, c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedAddFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *relationHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.relationService.RemoveFavorite(c.Context(), userID, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedRemoveFavorite, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessRemoveFavorite)
}

func (h *relationHandler) AddToCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.relationService.AddToCart(c.Context(), userID, c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedAddToCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToCart)
}

func (h *relationHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.relationService.RemoveFromCart(c.Context(), userID, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedRemoveFromCart, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessRemoveFromCart)
}

func (h *relationHandler) Subscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.relationService.Subscribe(c.Context(), userID, c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *relationHandler) Unsubscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.relationService.Unsubscribe(c.Context(), userID, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedUnsubscribe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusNoContent, domain.MessageSuccessUnsubscribe)
}

func (h *relationHandler) GetSubscriptions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.relationService.GetSubscriptions(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedGetSubscriptions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscriptions)
}
