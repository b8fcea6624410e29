package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameRule(t *testing.T) {
	InitValidator()

	type payload struct {
		Username string `validate:"username"`
	}

	valid := []string{"ada", "ada.lovelace", "user@host", "first+last", "with-dash", "under_score", "me2"}
	for _, username := range valid {
		assert.NoError(t, Validate.Struct(payload{Username: username}), username)
	}

	invalid := []string{"with space", "semi;colon", "sla/sh", "me", "ME", "Me"}
	for _, username := range invalid {
		assert.Error(t, Validate.Struct(payload{Username: username}), username)
	}
}
