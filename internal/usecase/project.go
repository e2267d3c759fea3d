package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/repository"
)

// ProjectUsecase defines the business logic for project lifecycle. Access
// control happens before these calls: the handler layer resolves the
// project and rejects actors who are neither manager nor team member, so
// every project passed in here is already authorized for the actor.
type ProjectUsecase interface {
	// CreateProject creates a project owned by managerID.
	CreateProject(ctx context.Context, managerID bson.ObjectID, params ProjectParams) (*model.Project, error)

	// ListProjects returns every project the user manages or is a team
	// member of.
	ListProjects(ctx context.Context, userID bson.ObjectID) ([]*model.Project, error)

	// UpdateProject rewrites the project's display metadata. The manager
	// reference is never touched.
	UpdateProject(ctx context.Context, project *model.Project, params ProjectParams) error

	// DeleteProject removes the project and its tasks. The two deletes are
	// settled side by side without rollback.
	DeleteProject(ctx context.Context, project *model.Project) error
}

// ProjectParams defines the display metadata of a project.
type ProjectParams struct {
	ProjectName string
	ClientName  string
	Description string
}

type projectUsecase struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	logger      *zerolog.Logger
}

// NewProjectUsecase creates a new instance of ProjectUsecase.
func NewProjectUsecase(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	logger *zerolog.Logger,
) ProjectUsecase {
	return &projectUsecase{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		logger:      logger,
	}
}

func (u *projectUsecase) CreateProject(
	ctx context.Context,
	managerID bson.ObjectID,
	params ProjectParams,
) (*model.Project, error) {
	project := &model.Project{
		ProjectName: params.ProjectName,
		ClientName:  params.ClientName,
		Description: params.Description,
		Manager:     managerID,
	}

	return u.projectRepo.CreateProject(ctx, project)
}

func (u *projectUsecase) ListProjects(ctx context.Context, userID bson.ObjectID) ([]*model.Project, error) {
	return u.projectRepo.ListProjectsForUser(ctx, userID)
}

func (u *projectUsecase) UpdateProject(ctx context.Context, project *model.Project, params ProjectParams) error {
	_, err := u.projectRepo.UpdateProject(ctx, project.ID.Hex(), repository.UpdateProjectParams{
		ProjectName: &params.ProjectName,
		ClientName:  &params.ClientName,
		Description: &params.Description,
	})
	return err
}

func (u *projectUsecase) DeleteProject(ctx context.Context, project *model.Project) error {
	return settleWrites(u.logger,
		func() error {
			return u.projectRepo.DeleteProject(ctx, project.ID.Hex())
		},
		func() error {
			_, err := u.taskRepo.DeleteTasksByProject(ctx, project.ID)
			return err
		},
	)
}
