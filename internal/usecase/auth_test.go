package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptescayola/uptask-backend/internal/auth"
	"github.com/ptescayola/uptask-backend/internal/config"
	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/security"
)

type authTestEnv struct {
	userRepo  *fakeUserRepo
	tokenRepo *fakeTokenRepo
	mailer    *fakeMailer
	jwtAuth   auth.JWTAuthenticator
	usecase   AuthUsecase
}

func setupAuthEnv(t *testing.T) authTestEnv {
	t.Helper()

	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	mailer := &fakeMailer{}
	jwtAuth := auth.NewJWTAuthenticator("test-secret", "uptask", "uptask", time.Hour)
	logger := zerolog.Nop()

	cfg := &config.Config{
		FrontendURL:    "http://localhost:5173",
		TokenExpiresIn: 10 * time.Minute,
	}

	return authTestEnv{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		jwtAuth:   jwtAuth,
		usecase:   NewAuthUsecase(userRepo, tokenRepo, jwtAuth, mailer, cfg, &logger),
	}
}

// seedUser inserts a user directly into the fake store with a real argon2
// hash so login paths exercise the verification code.
func seedUser(t *testing.T, env authTestEnv, email, password string, confirmed bool) *model.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	user, err := env.userRepo.CreateUser(context.Background(), &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test",
		Lastname:     "User",
		Confirmed:    confirmed,
	})
	require.NoError(t, err)

	return user
}

func TestCreateAccount(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	err := env.usecase.CreateAccount(ctx, CreateAccountParams{
		Name:     "Pau",
		Lastname: "Tescayola",
		Email:    "Pau@Example.COM",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := env.userRepo.GetUserByEmail(ctx, "pau@example.com")
	require.NoError(t, err, "email should be stored lowercased")
	assert.False(t, user.Confirmed)
	assert.NotEqual(t, "password123", user.PasswordHash)

	tokens := env.tokenRepo.forUser(user.ID)
	require.Len(t, tokens, 1)
	assert.Len(t, tokens[0].Token, 6)
	assert.False(t, tokens[0].Expired())

	require.Equal(t, 1, env.mailer.count())
	assert.Contains(t, env.mailer.sent[0].body, tokens[0].Token)
	assert.Equal(t, []string{"pau@example.com"}, env.mailer.sent[0].to)
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	seedUser(t, env, "taken@example.com", "password123", true)

	err := env.usecase.CreateAccount(ctx, CreateAccountParams{
		Name:     "Other",
		Lastname: "Person",
		Email:    "taken@example.com",
		Password: "different456",
	})
	require.ErrorIs(t, err, ErrUserAlreadyExists)

	assert.Equal(t, 1, env.userRepo.count())
	assert.Equal(t, 0, env.mailer.count(), "no email on rejected registration")
}

// Full registration flow: register, fail login while unconfirmed (which
// re-sends a code), confirm, log in.
func TestRegisterConfirmLoginFlow(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	err := env.usecase.CreateAccount(ctx, CreateAccountParams{
		Name:     "Ana",
		Lastname: "Garcia",
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := env.userRepo.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)

	// Login before confirming fails, but mints and mails a fresh token.
	_, err = env.usecase.Login(ctx, LoginParams{Email: "ana@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrAccountNotConfirmed)
	require.Equal(t, 2, env.mailer.count())

	tokens := env.tokenRepo.forUser(user.ID)
	require.Len(t, tokens, 2)

	redeemed := tokens[0]
	require.NoError(t, env.usecase.ConfirmAccount(ctx, redeemed.Token))

	user, err = env.userRepo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, user.Confirmed)

	// Tokens are single-use: redeeming the same value again fails.
	err = env.usecase.ConfirmAccount(ctx, redeemed.Token)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	session, err := env.usecase.Login(ctx, LoginParams{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	userID, err := env.jwtAuth.VerifySession(session)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), userID)
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupAuthEnv(t)

	seedUser(t, env, "user@example.com", "password123", true)

	_, err := env.usecase.Login(context.Background(), LoginParams{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := setupAuthEnv(t)

	_, err := env.usecase.Login(context.Background(), LoginParams{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestConfirmationCodeAlreadyConfirmed(t *testing.T) {
	env := setupAuthEnv(t)

	seedUser(t, env, "done@example.com", "password123", true)

	err := env.usecase.RequestConfirmationCode(context.Background(), "done@example.com")
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, 0, env.mailer.count())
}

func TestPasswordResetTokenSingleUse(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	user := seedUser(t, env, "forgetful@example.com", "oldpassword1", true)

	require.NoError(t, env.usecase.ForgotPassword(ctx, "forgetful@example.com"))
	require.Equal(t, 1, env.mailer.count())

	tokens := env.tokenRepo.forUser(user.ID)
	require.Len(t, tokens, 1)
	value := tokens[0].Token

	// Validation does not consume the token.
	require.NoError(t, env.usecase.ValidateToken(ctx, value))
	require.NoError(t, env.usecase.ValidateToken(ctx, value))

	require.NoError(t, env.usecase.UpdatePasswordWithToken(ctx, value, "newpassword1"))

	user, err := env.userRepo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	ok, err := security.VerifyPassword("newpassword1", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// Redemption consumed the token.
	err = env.usecase.UpdatePasswordWithToken(ctx, value, "anotherpass1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.ErrorIs(t, env.usecase.ValidateToken(ctx, value), ErrTokenNotFound)
}

func TestValidateTokenExpired(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	user := seedUser(t, env, "late@example.com", "password123", false)

	_, err := env.tokenRepo.CreateToken(ctx, &model.Token{
		Token:     "123456",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, env.usecase.ValidateToken(ctx, "123456"), ErrTokenNotFound)
	assert.ErrorIs(t, env.usecase.ConfirmAccount(ctx, "123456"), ErrTokenNotFound)
}

func TestValidateTokenUnknown(t *testing.T) {
	env := setupAuthEnv(t)

	err := env.usecase.ValidateToken(context.Background(), "000000")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestUpdateProfile(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	user := seedUser(t, env, "old@example.com", "password123", true)

	err := env.usecase.UpdateProfile(ctx, user, UpdateProfileParams{
		Name:     "New",
		Lastname: "Name",
		Email:    "New@Example.com",
	})
	require.NoError(t, err)

	updated, err := env.userRepo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "Name", updated.Lastname)
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	user := seedUser(t, env, "me@example.com", "password123", true)
	seedUser(t, env, "other@example.com", "password123", true)

	err := env.usecase.UpdateProfile(ctx, user, UpdateProfileParams{
		Name:     "Me",
		Lastname: "Myself",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

// Keeping your own email on a profile update is not a conflict.
func TestUpdateProfileKeepOwnEmail(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	user := seedUser(t, env, "me@example.com", "password123", true)

	err := env.usecase.UpdateProfile(ctx, user, UpdateProfileParams{
		Name:     "Renamed",
		Lastname: "User",
		Email:    "me@example.com",
	})
	require.NoError(t, err)
}

func TestUpdateCurrentUserPassword(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	user := seedUser(t, env, "me@example.com", "oldpassword1", true)

	err := env.usecase.UpdateCurrentUserPassword(ctx, user, "wrong-password", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = env.usecase.UpdateCurrentUserPassword(ctx, user, "oldpassword1", "newpassword1")
	require.NoError(t, err)

	updated, err := env.userRepo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	ok, err := security.VerifyPassword("newpassword1", updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPassword(t *testing.T) {
	env := setupAuthEnv(t)
	ctx := context.Background()

	user := seedUser(t, env, "me@example.com", "password123", true)

	require.NoError(t, env.usecase.CheckPassword(ctx, user, "password123"))
	assert.ErrorIs(t, env.usecase.CheckPassword(ctx, user, "nope"), ErrInvalidCredentials)
}

func TestGenerateTokenValue(t *testing.T) {
	for range 32 {
		value, err := generateTokenValue()
		require.NoError(t, err)
		require.Len(t, value, 6)
		for _, r := range value {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
