package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ptescayola/uptask-backend/internal/model"
	"github.com/ptescayola/uptask-backend/internal/repository"
)

var (
	// ErrAlreadyMember is returned when adding a user that is already in
	// the project team.
	ErrAlreadyMember = errors.New("user already in the team")

	// ErrMemberNotFound is returned when removing a user that is not in
	// the project team. Removal of a non-member is an error, not a no-op.
	ErrMemberNotFound = errors.New("user not in the team")
)

// Member is the minimal identity projection exposed by team lookups.
type Member struct {
	ID       bson.ObjectID `json:"id"`
	Email    string        `json:"email"`
	Name     string        `json:"name"`
	Lastname string        `json:"lastname"`
}

// TeamUsecase defines the business logic for project team membership.
type TeamUsecase interface {
	// FindMemberByEmail locates a candidate member by exact, lowercased
	// email.
	FindMemberByEmail(ctx context.Context, email string) (*Member, error)

	// GetTeam returns the project's team as identity projections.
	GetTeam(ctx context.Context, project *model.Project) ([]Member, error)

	// AddMember appends an existing user to the project team. The team is
	// a set: adding a current member fails with ErrAlreadyMember.
	AddMember(ctx context.Context, project *model.Project, userID string) error

	// RemoveMember removes a current team member.
	RemoveMember(ctx context.Context, project *model.Project, userID string) error
}

type teamUsecase struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewTeamUsecase creates a new instance of TeamUsecase.
func NewTeamUsecase(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) TeamUsecase {
	return &teamUsecase{
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

func (u *teamUsecase) FindMemberByEmail(ctx context.Context, email string) (*Member, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return projectMember(user), nil
}

func (u *teamUsecase) GetTeam(ctx context.Context, project *model.Project) ([]Member, error) {
	users, err := u.userRepo.GetUsersByIDs(ctx, project.Team)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(users))
	for _, user := range users {
		members = append(members, *projectMember(user))
	}

	return members, nil
}

func (u *teamUsecase) AddMember(ctx context.Context, project *model.Project, userID string) error {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	if project.HasMember(user.ID) {
		return ErrAlreadyMember
	}

	return u.projectRepo.AddTeamMember(ctx, project.ID, user.ID)
}

func (u *teamUsecase) RemoveMember(ctx context.Context, project *model.Project, userID string) error {
	memberID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrMemberNotFound
	}

	if !project.HasMember(memberID) {
		return ErrMemberNotFound
	}

	return u.projectRepo.RemoveTeamMember(ctx, project.ID, memberID)
}

func projectMember(user *model.User) *Member {
	return &Member{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Lastname: user.Lastname,
	}
}
