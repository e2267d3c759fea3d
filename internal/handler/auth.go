package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ptescayola/uptask-backend/internal/storage"
	"github.com/ptescayola/uptask-backend/internal/usecase"
	"github.com/ptescayola/uptask-backend/internal/validate"
)

// AuthHandler serves the /api/auth surface: account lifecycle, sessions,
// profile and profile-image management.
type AuthHandler struct {
	authUsecase    usecase.AuthUsecase
	profileUsecase usecase.ProfileUsecase
	validator      *validate.Validator
	logger         *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	profileUsecase usecase.ProfileUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:    authUsecase,
		profileUsecase: profileUsecase,
		validator:      validator,
		logger:         logger,
	}
}

func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	err := h.authUsecase.CreateAccount(r.Context(), usecase.CreateAccountParams{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Account created, check your email to confirm it")
}

func (h *AuthHandler) ConfirmAccount(w http.ResponseWriter, r *http.Request) {
	var req ConfirmAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	if err := h.authUsecase.ConfirmAccount(r.Context(), req.Token); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Account confirmed")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrAccountNotConfirmed) {
			respondError(w, http.StatusUnauthorized,
				"The account has not been confirmed, we have sent a confirmation email")
			return
		}
		h.respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *AuthHandler) RequestConfirmationCode(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	if err := h.authUsecase.RequestConfirmationCode(r.Context(), req.Email); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "A new token has been sent to your email")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	if err := h.authUsecase.ForgotPassword(r.Context(), req.Email); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Check your email for instructions")
}

func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req ValidateTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	if err := h.authUsecase.ValidateToken(r.Context(), req.Token); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Valid token, set your new password")
}

func (h *AuthHandler) UpdatePasswordWithToken(w http.ResponseWriter, r *http.Request) {
	var req UpdatePasswordWithTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	token := chi.URLParam(r, "token")
	if err := h.authUsecase.UpdatePasswordWithToken(r.Context(), token, req.Password); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "The password was changed successfully")
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, UserFromContext(r.Context()))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	user := UserFromContext(r.Context())
	err := h.authUsecase.UpdateProfile(r.Context(), user, usecase.UpdateProfileParams{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
	})
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Profile updated")
}

func (h *AuthHandler) UpdateCurrentUserPassword(w http.ResponseWriter, r *http.Request) {
	var req UpdateCurrentPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	user := UserFromContext(r.Context())
	if err := h.authUsecase.UpdateCurrentUserPassword(r.Context(), user, req.CurrentPassword, req.Password); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password updated")
}

func (h *AuthHandler) CheckPassword(w http.ResponseWriter, r *http.Request) {
	var req CheckPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	user := UserFromContext(r.Context())
	if err := h.authUsecase.CheckPassword(r.Context(), user, req.Password); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Correct password")
}

func (h *AuthHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxProfileImageSize+1024)
	if err := r.ParseMultipartForm(storage.MaxProfileImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("profileImage")
	if err != nil {
		respondError(w, http.StatusBadRequest, "profileImage file is required")
		return
	}
	defer file.Close()

	user := UserFromContext(r.Context())
	filename, err := h.profileUsecase.SetProfileImage(r.Context(), user, file, header)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("failed to store profile image")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message":      "Profile image updated",
		"profileImage": filename,
	})
}

func (h *AuthHandler) DeleteProfileImage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.profileUsecase.RemoveProfileImage(r.Context(), user); err != nil {
		h.logger.Error().Err(err).Msg("failed to remove profile image")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondMessage(w, http.StatusOK, "Profile image removed")
}

func (h *AuthHandler) respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		respondError(w, http.StatusConflict, "User already exists")
	case errors.Is(err, usecase.ErrEmailTaken):
		respondError(w, http.StatusConflict, "Email already in use")
	case errors.Is(err, usecase.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, usecase.ErrTokenNotFound):
		respondError(w, http.StatusNotFound, "Token not valid")
	case errors.Is(err, usecase.ErrAlreadyConfirmed):
		respondError(w, http.StatusForbidden, "User already confirmed")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Incorrect password")
	case errors.Is(err, usecase.ErrAccountNotConfirmed):
		respondError(w, http.StatusUnauthorized, "The account has not been confirmed")
	default:
		h.logger.Error().Err(err).Msg("auth operation failed")
		respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}
