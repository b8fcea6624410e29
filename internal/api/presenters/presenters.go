package presenters

import (
	"errors"
	"strings"

	"foodgram-backend/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ErrorResponse renders failures with a field name or a plain-language
// reason; internals never leak to the caller.
func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	return c.Status(code).JSON(Response{
		Status:  "error",
		Message: message,
		Errors:  errorDetails(err),
	})
}

func errorDetails(err error) any {
	if err == nil {
		return nil
	}

	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		return fiber.Map{fieldErr.Field: []string{fieldErr.Message}}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := fiber.Map{}
		for _, fe := range validationErrs {
			field := strings.ToLower(fe.Field())
			fields[field] = []string{"failed on rule " + fe.Tag()}
		}
		return fields
	}

	return []string{err.Error()}
}
