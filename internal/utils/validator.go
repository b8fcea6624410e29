package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func InitValidator() {
	Validate = validator.New()

	// Username rule: restricted character set, and "me" is reserved because
	// it collides with the /users/me route.
	_ = Validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		username := fl.Field().String()
		if strings.EqualFold(username, "me") {
			return false
		}
		return usernamePattern.MatchString(username)
	})
}
