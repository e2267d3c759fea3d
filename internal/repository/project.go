package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ptescayola/uptask-backend/internal/model"
)

// ProjectRepository defines the interface for project-related database
// operations. The manager reference is set at creation and never updated.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *model.Project) (*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjectsForUser(ctx context.Context, userID bson.ObjectID) ([]*model.Project, error)
	UpdateProject(ctx context.Context, id string, params UpdateProjectParams) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	AddTask(ctx context.Context, projectID, taskID bson.ObjectID) error
	RemoveTask(ctx context.Context, projectID, taskID bson.ObjectID) error
	AddTeamMember(ctx context.Context, projectID, userID bson.ObjectID) error
	RemoveTeamMember(ctx context.Context, projectID, userID bson.ObjectID) error
}

// UpdateProjectParams defines the optional parameters for updating project
// metadata. Only the fields that are not nil will be updated.
type UpdateProjectParams struct {
	ProjectName *string
	ClientName  *string
	Description *string
}

const projectCollection = "projects"

type projectMongoRepository struct {
	db *mongo.Database
}

func NewProjectMongoRepository(db *mongo.Database) ProjectRepository {
	return &projectMongoRepository{db: db}
}

func (r *projectMongoRepository) CreateProject(ctx context.Context, project *model.Project) (*model.Project, error) {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	if project.Team == nil {
		project.Team = []bson.ObjectID{}
	}
	if project.Tasks == nil {
		project.Tasks = []bson.ObjectID{}
	}

	result, err := r.db.Collection(projectCollection).InsertOne(ctx, project)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		project.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return project, nil
}

func (r *projectMongoRepository) GetProject(ctx context.Context, id string) (*model.Project, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(projectCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var project model.Project
	if err := result.Decode(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *projectMongoRepository) ListProjectsForUser(
	ctx context.Context,
	userID bson.ObjectID,
) ([]*model.Project, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"manager": userID},
			bson.M{"team": userID},
		},
	}

	cursor, err := r.db.Collection(projectCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*model.Project
	for cursor.Next(ctx) {
		var project model.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, err
		}
		projects = append(projects, &project)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectMongoRepository) UpdateProject(
	ctx context.Context,
	id string,
	params UpdateProjectParams,
) (*model.Project, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.ProjectName != nil {
		updateMap["project_name"] = *params.ProjectName
	}
	if params.ClientName != nil {
		updateMap["client_name"] = *params.ClientName
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no project fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(projectCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var project model.Project
	if err := result.Decode(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *projectMongoRepository) DeleteProject(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(projectCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

func (r *projectMongoRepository) AddTask(ctx context.Context, projectID, taskID bson.ObjectID) error {
	return r.push(ctx, projectID, "tasks", taskID)
}

func (r *projectMongoRepository) RemoveTask(ctx context.Context, projectID, taskID bson.ObjectID) error {
	return r.pull(ctx, projectID, "tasks", taskID)
}

func (r *projectMongoRepository) AddTeamMember(ctx context.Context, projectID, userID bson.ObjectID) error {
	return r.push(ctx, projectID, "team", userID)
}

func (r *projectMongoRepository) RemoveTeamMember(ctx context.Context, projectID, userID bson.ObjectID) error {
	return r.pull(ctx, projectID, "team", userID)
}

func (r *projectMongoRepository) push(ctx context.Context, projectID bson.ObjectID, field string, value bson.ObjectID) error {
	update := bson.M{
		"$push": bson.M{field: value},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	_, err := r.db.Collection(projectCollection).UpdateOne(ctx, bson.M{"_id": projectID}, update)
	return err
}

func (r *projectMongoRepository) pull(ctx context.Context, projectID bson.ObjectID, field string, value bson.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{field: value},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	_, err := r.db.Collection(projectCollection).UpdateOne(ctx, bson.M{"_id": projectID}, update)
	return err
}
