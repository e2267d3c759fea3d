package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TaskStatus is the workflow state of a task. There is no state machine:
// any project member may move a task to any status.
type TaskStatus string

const (
	StatusPending     TaskStatus = "pending"
	StatusOnHold      TaskStatus = "onHold"
	StatusInProgress  TaskStatus = "inProgress"
	StatusUnderReview TaskStatus = "underReview"
	StatusCompleted   TaskStatus = "completed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusOnHold, StatusInProgress, StatusUnderReview, StatusCompleted:
		return true
	}
	return false
}

// StatusChange records one status transition: who moved the task and to
// which status. The log is append-only.
type StatusChange struct {
	UserID bson.ObjectID `bson:"user"   json:"user"`
	Status TaskStatus    `bson:"status" json:"status"`
}

// Task belongs to exactly one project; the project reference is immutable.
// A task reached through a project path whose id does not match Project is
// treated as nonexistent.
type Task struct {
	ID          bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string         `bson:"name"          json:"name"`
	Description string         `bson:"description"   json:"description"`
	Project     bson.ObjectID  `bson:"project"       json:"project"`
	Status      TaskStatus     `bson:"status"        json:"status"`
	CompletedBy []StatusChange `bson:"completed_by"  json:"completedBy"`
	CreatedAt   time.Time      `bson:"created_at"    json:"-"`
	UpdatedAt   time.Time      `bson:"updated_at"    json:"-"`
}
