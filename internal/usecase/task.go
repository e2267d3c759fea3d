package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/repository"
)

// ErrInvalidStatus is returned for status values outside the known set.
var ErrInvalidStatus = errors.New("invalid task status")

// TaskUsecase defines the business logic for task lifecycle. Tasks reach
// this layer already resolved against their owning project by the handler
// layer, so project membership of the task is a given.
type TaskUsecase interface {
	// CreateTask creates a task on the project and records its id in the
	// project's task list via a settled pair of writes.
	CreateTask(ctx context.Context, project *model.Project, params TaskParams) (*model.Task, error)

	// ListTasks returns the project's tasks.
	ListTasks(ctx context.Context, projectID bson.ObjectID) ([]*model.Task, error)

	// UpdateTask rewrites a task's name and description.
	UpdateTask(ctx context.Context, task *model.Task, params TaskParams) error

	// UpdateStatus moves the task to status and appends an entry to its
	// append-only history attributing the transition to userID.
	UpdateStatus(ctx context.Context, task *model.Task, userID bson.ObjectID, status model.TaskStatus) (*model.Task, error)

	// DeleteTask removes the task and its reference in the owning
	// project's task list via a settled pair of writes.
	DeleteTask(ctx context.Context, project *model.Project, task *model.Task) error
}

// TaskParams defines a task's editable definition.
type TaskParams struct {
	Name        string
	Description string
	Status      model.TaskStatus
}

type taskUsecase struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	logger      *zerolog.Logger
}

// NewTaskUsecase creates a new instance of TaskUsecase.
func NewTaskUsecase(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	logger *zerolog.Logger,
) TaskUsecase {
	return &taskUsecase{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

func (u *taskUsecase) CreateTask(
	ctx context.Context,
	project *model.Project,
	params TaskParams,
) (*model.Task, error) {
	status := params.Status
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	// The task id is assigned up front so the insert and the project's
	// task-list update can run side by side.
	task := &model.Task{
		ID:          model.NewID(),
		Name:        params.Name,
		Description: params.Description,
		Project:     project.ID,
		Status:      status,
	}

	err := settleWrites(u.logger,
		func() error {
			_, err := u.taskRepo.CreateTask(ctx, task)
			return err
		},
		func() error {
			return u.projectRepo.AddTask(ctx, project.ID, task.ID)
		},
	)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) ListTasks(ctx context.Context, projectID bson.ObjectID) ([]*model.Task, error) {
	return u.taskRepo.ListTasksByProject(ctx, projectID)
}

func (u *taskUsecase) UpdateTask(ctx context.Context, task *model.Task, params TaskParams) error {
	_, err := u.taskRepo.UpdateTask(ctx, task.ID.Hex(), repository.UpdateTaskParams{
		Name:        &params.Name,
		Description: &params.Description,
	})
	return err
}

func (u *taskUsecase) UpdateStatus(
	ctx context.Context,
	task *model.Task,
	userID bson.ObjectID,
	status model.TaskStatus,
) (*model.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	change := model.StatusChange{
		UserID: userID,
		Status: status,
	}

	return u.taskRepo.UpdateTaskStatus(ctx, task.ID.Hex(), status, change)
}

func (u *taskUsecase) DeleteTask(ctx context.Context, project *model.Project, task *model.Task) error {
	return settleWrites(u.logger,
		func() error {
			return u.taskRepo.DeleteTask(ctx, task.ID.Hex())
		},
		func() error {
			return u.projectRepo.RemoveTask(ctx, project.ID, task.ID)
		},
	)
}
