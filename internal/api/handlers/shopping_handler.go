package handlers

import (
	"foodgram-backend/domain"
	"foodgram-backend/internal/api/presenters"
	"foodgram-backend/pkg/shopping"

	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingHandler interface {
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	shoppingHandler struct {
		shoppingService shopping.ShoppingService
	}
)

func NewShoppingHandler(shoppingService shopping.ShoppingService) ShoppingHandler {
	return &shoppingHandler{shoppingService: shoppingService}
}

// DownloadShoppingCart returns the aggregated cart as a PDF attachment. An
// empty cart yields a document with only the title, not an error.
func (h *shoppingHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	document, err := h.shoppingService.DownloadShoppingList(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusCode(err), domain.MessageFailedDownloadCart, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="Recipes.pdf"`)
	return c.Status(fiber.StatusOK).Send(document)
}
