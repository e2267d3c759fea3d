package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ptescayola/uptask-backend/internal/usecase"
	"github.com/ptescayola/uptask-backend/internal/validate"
)

// TeamHandler serves team membership management. All team routes are
// manager routes.
type TeamHandler struct {
	teamUsecase usecase.TeamUsecase
	validator   *validate.Validator
	logger      *zerolog.Logger
}

// NewTeamHandler creates a new TeamHandler instance.
func NewTeamHandler(teamUsecase usecase.TeamUsecase, validator *validate.Validator, logger *zerolog.Logger) *TeamHandler {
	return &TeamHandler{
		teamUsecase: teamUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *TeamHandler) Find(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	member, err := h.teamUsecase.FindMemberByEmail(r.Context(), req.Email)
	if err != nil {
		h.respondTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	project := ProjectFromContext(r.Context())

	members, err := h.teamUsecase.GetTeam(r.Context(), project)
	if err != nil {
		h.respondTeamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

func (h *TeamHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	project := ProjectFromContext(r.Context())
	if err := h.teamUsecase.AddMember(r.Context(), project, req.ID); err != nil {
		h.respondTeamError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Member added")
}

func (h *TeamHandler) Remove(w http.ResponseWriter, r *http.Request) {
	project := ProjectFromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	if err := h.teamUsecase.RemoveMember(r.Context(), project, userID); err != nil {
		h.respondTeamError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Member removed")
}

func (h *TeamHandler) respondTeamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, usecase.ErrAlreadyMember):
		respondError(w, http.StatusConflict, "User already in the team")
	case errors.Is(err, usecase.ErrMemberNotFound):
		respondError(w, http.StatusConflict, "User not in the team")
	default:
		h.logger.Error().Err(err).Msg("team operation failed")
		respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}
