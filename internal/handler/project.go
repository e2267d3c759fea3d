package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/usecase"
	"github.com/ptescayola/uptask-backend/internal/validate"
)

// ProjectHandler serves project CRUD. Every route below the collection
// level runs behind ProjectCtx, and mutations behind RequireManager.
type ProjectHandler struct {
	projectUsecase usecase.ProjectUsecase
	taskUsecase    usecase.TaskUsecase
	validator      *validate.Validator
	logger         *zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(
	projectUsecase usecase.ProjectUsecase,
	taskUsecase usecase.TaskUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectUsecase: projectUsecase,
		taskUsecase:    taskUsecase,
		validator:      validator,
		logger:         logger,
	}
}

// projectResponse is a project with its tasks populated.
type projectResponse struct {
	*model.Project
	Tasks []*model.Task `json:"tasks"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	user := UserFromContext(r.Context())
	project, err := h.projectUsecase.CreateProject(r.Context(), user.ID, usecase.ProjectParams{
		ProjectName: req.ProjectName,
		ClientName:  req.ClientName,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create project")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	projects, err := h.projectUsecase.ListProjects(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list projects")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if projects == nil {
		projects = []*model.Project{}
	}
	respondJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project := ProjectFromContext(r.Context())

	tasks, err := h.taskUsecase.ListTasks(r.Context(), project.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load project tasks")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if tasks == nil {
		tasks = []*model.Task{}
	}
	respondJSON(w, http.StatusOK, projectResponse{Project: project, Tasks: tasks})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	project := ProjectFromContext(r.Context())
	err := h.projectUsecase.UpdateProject(r.Context(), project, usecase.ProjectParams{
		ProjectName: req.ProjectName,
		ClientName:  req.ClientName,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update project")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondMessage(w, http.StatusOK, "Project updated")
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	project := ProjectFromContext(r.Context())

	if err := h.projectUsecase.DeleteProject(r.Context(), project); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete project")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondMessage(w, http.StatusOK, "Project deleted")
}
