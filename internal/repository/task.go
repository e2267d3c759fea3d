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

// TaskRepository defines the interface for task-related database
// operations. A task's project reference is immutable after creation.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasksByProject(ctx context.Context, projectID bson.ObjectID) ([]*model.Task, error)
	UpdateTask(ctx context.Context, id string, params UpdateTaskParams) (*model.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status model.TaskStatus, change model.StatusChange) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByProject(ctx context.Context, projectID bson.ObjectID) (int64, error)
}

// UpdateTaskParams defines the optional parameters for updating task
// name and description. Only the fields that are not nil will be updated.
type UpdateTaskParams struct {
	Name        *string
	Description *string
}

const taskCollection = "tasks"

type taskMongoRepository struct {
	db *mongo.Database
}

func NewTaskMongoRepository(db *mongo.Database) TaskRepository {
	return &taskMongoRepository{db: db}
}

func (r *taskMongoRepository) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.CompletedBy == nil {
		task.CompletedBy = []model.StatusChange{}
	}

	result, err := r.db.Collection(taskCollection).InsertOne(ctx, task)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		task.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return task, nil
}

func (r *taskMongoRepository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(taskCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var task model.Task
	if err := result.Decode(&task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *taskMongoRepository) ListTasksByProject(
	ctx context.Context,
	projectID bson.ObjectID,
) ([]*model.Task, error) {
	cursor, err := r.db.Collection(taskCollection).Find(ctx, bson.M{"project": projectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*model.Task
	for cursor.Next(ctx) {
		var task model.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskMongoRepository) UpdateTask(
	ctx context.Context,
	id string,
	params UpdateTaskParams,
) (*model.Task, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.Name != nil {
		updateMap["name"] = *params.Name
	}
	if params.Description != nil {
		updateMap["description"] = *params.Description
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no task fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(taskCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var task model.Task
	if err := result.Decode(&task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *taskMongoRepository) UpdateTaskStatus(
	ctx context.Context,
	id string,
	status model.TaskStatus,
	change model.StatusChange,
) (*model.Task, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
		"$push": bson.M{"completed_by": change},
	}

	result := r.db.Collection(taskCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var task model.Task
	if err := result.Decode(&task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *taskMongoRepository) DeleteTask(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(taskCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

func (r *taskMongoRepository) DeleteTasksByProject(ctx context.Context, projectID bson.ObjectID) (int64, error) {
	result, err := r.db.Collection(taskCollection).DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
