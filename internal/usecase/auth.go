package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ptescayola/uptask-backend/internal/auth"
	"github.com/ptescayola/uptask-backend/internal/config"
	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/repository"
	"github.com/ptescayola/uptask-backend/internal/security"
)

// AuthUsecase defines the business logic for account lifecycle and
// session issuance.
type AuthUsecase interface {
	// CreateAccount registers a new unconfirmed user, mints a confirmation
	// token and emails it.
	CreateAccount(ctx context.Context, params CreateAccountParams) error

	// ConfirmAccount redeems a confirmation token, marking the user
	// confirmed and consuming the token.
	ConfirmAccount(ctx context.Context, tokenValue string) error

	// Login verifies credentials and returns a signed session credential.
	// Logging into an unconfirmed account fails but re-sends a fresh
	// confirmation token as a side effect.
	Login(ctx context.Context, params LoginParams) (string, error)

	// RequestConfirmationCode re-issues a confirmation token for an
	// unconfirmed account.
	RequestConfirmationCode(ctx context.Context, email string) error

	// ForgotPassword mints a password-reset token and emails it.
	ForgotPassword(ctx context.Context, email string) error

	// ValidateToken checks that a token exists and has not expired,
	// without consuming it.
	ValidateToken(ctx context.Context, tokenValue string) error

	// UpdatePasswordWithToken redeems a password-reset token, overwriting
	// the credential hash and consuming the token.
	UpdatePasswordWithToken(ctx context.Context, tokenValue, password string) error

	// UpdateProfile changes the acting user's names and email.
	UpdateProfile(ctx context.Context, user *model.User, params UpdateProfileParams) error

	// UpdateCurrentUserPassword changes the acting user's password after
	// verifying the current one.
	UpdateCurrentUserPassword(ctx context.Context, user *model.User, currentPassword, newPassword string) error

	// CheckPassword verifies a password against the acting user's hash.
	CheckPassword(ctx context.Context, user *model.User, password string) error
}

// CreateAccountParams defines the parameters for user registration.
type CreateAccountParams struct {
	Name     string
	Lastname string
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// UpdateProfileParams defines the parameters for a profile update.
type UpdateProfileParams struct {
	Name     string
	Lastname string
	Email    string
}

var (
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotConfirmed = errors.New("account has not been confirmed")
	ErrAlreadyConfirmed    = errors.New("user already confirmed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenNotFound       = errors.New("token not valid")
	ErrEmailTaken          = errors.New("email already in use")
)

type authUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtAuth   auth.JWTAuthenticator
	mailer    Mailer
	cfg       *config.Config
	logger    *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer Mailer,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtAuth:   jwtAuth,
		mailer:    mailer,
		cfg:       cfg,
		logger:    logger,
	}
}

func (u *authUsecase) CreateAccount(ctx context.Context, params CreateAccountParams) error {
	email := normalizeEmail(params.Email)

	if _, err := u.userRepo.GetUserByEmail(ctx, email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         params.Name,
		Lastname:     params.Lastname,
		Confirmed:    false,
	}

	token, err := u.mintToken(user)
	if err != nil {
		return err
	}

	// The user insert decides the outcome; the token insert is settled
	// alongside it without rollback.
	err = settleWrites(u.logger,
		func() error {
			_, err := u.userRepo.CreateUser(ctx, user)
			return err
		},
		func() error {
			_, err := u.tokenRepo.CreateToken(ctx, token)
			return err
		},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return err
	}

	return u.sendConfirmationEmail(user, token.Token)
}

func (u *authUsecase) ConfirmAccount(ctx context.Context, tokenValue string) error {
	token, err := u.getLiveToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	confirmed := true
	return settleWrites(u.logger,
		func() error {
			_, err := u.userRepo.UpdateUser(ctx, token.UserID.Hex(), repository.UpdateUserParams{
				Confirmed: &confirmed,
			})
			return err
		},
		func() error {
			return u.tokenRepo.DeleteToken(ctx, token.ID.Hex())
		},
	)
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !user.Confirmed {
		// A login attempt doubles as a resend mechanism: mint a fresh
		// confirmation token before rejecting.
		token, err := u.mintToken(user)
		if err != nil {
			return "", err
		}
		if _, err := u.tokenRepo.CreateToken(ctx, token); err != nil {
			return "", err
		}
		if err := u.sendConfirmationEmail(user, token.Token); err != nil {
			return "", err
		}

		return "", ErrAccountNotConfirmed
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	return u.jwtAuth.IssueSession(user.ID.Hex())
}

func (u *authUsecase) RequestConfirmationCode(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Confirmed {
		return ErrAlreadyConfirmed
	}

	token, err := u.mintToken(user)
	if err != nil {
		return err
	}
	if _, err := u.tokenRepo.CreateToken(ctx, token); err != nil {
		return err
	}

	return u.sendConfirmationEmail(user, token.Token)
}

func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := u.mintToken(user)
	if err != nil {
		return err
	}
	if _, err := u.tokenRepo.CreateToken(ctx, token); err != nil {
		return err
	}

	return u.sendPasswordResetEmail(user, token.Token)
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenValue string) error {
	_, err := u.getLiveToken(ctx, tokenValue)
	return err
}

func (u *authUsecase) UpdatePasswordWithToken(ctx context.Context, tokenValue, password string) error {
	token, err := u.getLiveToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	return settleWrites(u.logger,
		func() error {
			_, err := u.userRepo.UpdateUser(ctx, token.UserID.Hex(), repository.UpdateUserParams{
				PasswordHash: &passwordHash,
			})
			return err
		},
		func() error {
			return u.tokenRepo.DeleteToken(ctx, token.ID.Hex())
		},
	)
}

func (u *authUsecase) UpdateProfile(ctx context.Context, user *model.User, params UpdateProfileParams) error {
	email := normalizeEmail(params.Email)

	existing, err := u.userRepo.GetUserByEmail(ctx, email)
	if err == nil && existing.ID != user.ID {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	_, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Name:     &params.Name,
		Lastname: &params.Lastname,
		Email:    &email,
	})
	return err
}

func (u *authUsecase) UpdateCurrentUserPassword(
	ctx context.Context,
	user *model.User,
	currentPassword, newPassword string,
) error {
	if ok, err := security.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		return err
	} else if !ok {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})
	return err
}

func (u *authUsecase) CheckPassword(ctx context.Context, user *model.User, password string) error {
	if ok, err := security.VerifyPassword(password, user.PasswordHash); err != nil {
		return err
	} else if !ok {
		return ErrInvalidCredentials
	}

	return nil
}

// getLiveToken resolves a token by value. Missing and expired tokens are
// both reported as ErrTokenNotFound; expiry is checked here because the
// store's TTL sweep is periodic.
func (u *authUsecase) getLiveToken(ctx context.Context, tokenValue string) (*model.Token, error) {
	token, err := u.tokenRepo.GetTokenByValue(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if token.Expired() {
		return nil, ErrTokenNotFound
	}

	return token, nil
}

// mintToken creates a six-digit token bound to the user, valid for the
// configured token lifetime. The user id must already be set; for a fresh
// registration the id is assigned here so the user and token inserts can
// run side by side.
func (u *authUsecase) mintToken(user *model.User) (*model.Token, error) {
	if user.ID.IsZero() {
		user.ID = model.NewID()
	}

	value, err := generateTokenValue()
	if err != nil {
		return nil, err
	}

	return &model.Token{
		Token:     value,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.cfg.TokenExpiresIn),
	}, nil
}

func (u *authUsecase) sendConfirmationEmail(user *model.User, tokenValue string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hello %s, you have created your account on UpTask. You are almost done; you just need to confirm your account.</p>
		<p>Visit the following link:</p>
		<a href="%s/auth/confirm-account">Confirm Account</a>
		<p>And enter the code: <b>%s</b></p>
		<p>This token expires in %s.</p>
	`, user.Name, u.cfg.FrontendURL, tokenValue, u.cfg.TokenExpiresIn)

	return u.mailer.SendHTML([]string{user.Email}, "UpTask - Confirm your account", htmlBody)
}

func (u *authUsecase) sendPasswordResetEmail(user *model.User, tokenValue string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hello %s, you have requested to reset your password.</p>
		<p>Visit the following link:</p>
		<a href="%s/auth/new-password">Reset Password</a>
		<p>And enter the code: <b>%s</b></p>
		<p>This token expires in %s.</p>
	`, user.Name, u.cfg.FrontendURL, tokenValue, u.cfg.TokenExpiresIn)

	return u.mailer.SendHTML([]string{user.Email}, "UpTask - Reset your password", htmlBody)
}

// generateTokenValue returns a random six-digit code.
func generateTokenValue() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
