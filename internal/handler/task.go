package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/usecase"
	"github.com/ptescayola/uptask-backend/internal/validate"
)

// TaskHandler serves project-scoped task CRUD and status transitions.
// Task definition and lifecycle are manager routes; status updates are
// open to every project member.
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
	validator   *validate.Validator
	logger      *zerolog.Logger
}

// NewTaskHandler creates a new TaskHandler instance.
func NewTaskHandler(taskUsecase usecase.TaskUsecase, validator *validate.Validator, logger *zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	project := ProjectFromContext(r.Context())
	task, err := h.taskUsecase.CreateTask(r.Context(), project, usecase.TaskParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create task")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	project := ProjectFromContext(r.Context())

	tasks, err := h.taskUsecase.ListTasks(r.Context(), project.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list tasks")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if tasks == nil {
		tasks = []*model.Task{}
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TaskFromContext(r.Context()))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	task := TaskFromContext(r.Context())
	err := h.taskUsecase.UpdateTask(r.Context(), task, usecase.TaskParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update task")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondMessage(w, http.StatusOK, "Task updated")
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	project := ProjectFromContext(r.Context())
	task := TaskFromContext(r.Context())

	if err := h.taskUsecase.DeleteTask(r.Context(), project, task); err != nil {
		h.logger.Error().Err(err).Msg("failed to delete task")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondMessage(w, http.StatusOK, "Task deleted")
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req TaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fieldErrs := h.validator.Struct(req); fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	user := UserFromContext(r.Context())
	task := TaskFromContext(r.Context())

	updated, err := h.taskUsecase.UpdateStatus(r.Context(), task, user.ID, model.TaskStatus(req.Status))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidStatus) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("failed to update task status")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
