package user

import (
	"context"
	"testing"
	"time"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/pkg/jwt"

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

	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Subscription{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) UserService {
	t.Helper()
	return NewUserService(NewUserRepository(db), jwt.NewJWTService())
}

func registerRequest(username string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct horse",
	}
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)
	assert.Equal(t, "ada", res.Username)
	assert.Equal(t, "ada@example.com", res.Email)
	assert.NotEmpty(t, res.ID)

	// the stored password is a hash, never the plaintext
	var stored entities.User
	require.NoError(t, db.Where("username = ?", "ada").First(&stored).Error)
	assert.NotEqual(t, "correct horse", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestRegisterConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	var fieldErr *domain.FieldError

	_, err = svc.Register(ctx, registerRequest("ada"))
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "email", fieldErr.Field)

	// same username behind a fresh email
	req := registerRequest("ada")
	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "username", fieldErr.Field)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	res, err := svc.Login(ctx, domain.LoginRequest{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)

	// unknown account is indistinguishable from a bad password
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestGetUserSubscriptionFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	author, err := svc.Register(ctx, registerRequest("chef"))
	require.NoError(t, err)
	viewer, err := svc.Register(ctx, registerRequest("fan"))
	require.NoError(t, err)

	res, err := svc.GetUser(ctx, author.ID, viewer.ID)
	require.NoError(t, err)
	assert.False(t, res.IsSubscribed)

	require.NoError(t, db.Exec(
		"INSERT INTO subscriptions (id, user_id, author_id, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
		"b2a1a9b0-0000-0000-0000-000000000001", viewer.ID, author.ID,
	).Error)

	res, err = svc.GetUser(ctx, author.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, res.IsSubscribed)

	// a user never appears subscribed to themselves
	res, err = svc.GetUser(ctx, author.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, res.IsSubscribed)
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	res, err := svc.Update(ctx, registered.ID, domain.UpdateUserRequest{
		FirstName: "Augusta",
		Password:  "even better one",
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", res.FirstName)
	assert.Equal(t, "Lovelace", res.LastName)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "ada@example.com", Password: "even better one"})
	assert.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	db := newTestDB(t)
	jwtService := jwt.NewJWTService()
	svc := NewUserService(NewUserRepository(db), jwtService)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	token, err := jwtService.GenerateMailToken(map[string]any{"user_id": registered.ID}, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(ctx, token))

	var stored entities.User
	require.NoError(t, db.Where("id = ?", registered.ID).First(&stored).Error)
	assert.True(t, stored.Verified)

	err = svc.VerifyEmail(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
