package domain

import (
	"errors"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetProfile       = "success get profile"
	MessageSuccessUpdateUser       = "user updated successfully"
	MessageSuccessVerifyEmail      = "email verified successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetProfile       = "failed to get profile"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedVerifyEmail      = "failed to verify email"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrUsernameReserved   = errors.New("username me is reserved")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
		Password  string `json:"password" validate:"omitempty,min=8,max=150"`
	}

	UserResponse struct {
		Email        string `json:"email"`
		ID           string `json:"id"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// SubscriptionResponse lists a followed author together with their
	// recipes, as returned by subscribe and the subscriptions listing.
	SubscriptionResponse struct {
		UserResponse
		Recipes      []RecipeSummary `json:"recipes"`
		RecipesCount int             `json:"recipes_count"`
	}
)
