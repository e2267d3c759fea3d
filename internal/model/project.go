package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Project is owned by exactly one manager and visible to the manager plus
// its team members. The manager reference never changes after creation.
// Tasks holds the ids of the project's tasks, maintained in lockstep with
// task creation and deletion.
type Project struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectName string          `bson:"project_name"  json:"projectName"`
	ClientName  string          `bson:"client_name"   json:"clientName"`
	Description string          `bson:"description"   json:"description"`
	Manager     bson.ObjectID   `bson:"manager"       json:"manager"`
	Team        []bson.ObjectID `bson:"team"          json:"team"`
	Tasks       []bson.ObjectID `bson:"tasks"         json:"tasks"`
	CreatedAt   time.Time       `bson:"created_at"    json:"-"`
	UpdatedAt   time.Time       `bson:"updated_at"    json:"-"`
}

// IsManager reports whether userID owns the project.
func (p *Project) IsManager(userID bson.ObjectID) bool {
	return p.Manager == userID
}

// HasMember reports whether userID is in the project team. The team is a
// set; membership is checked before every add.
func (p *Project) HasMember(userID bson.ObjectID) bool {
	for _, member := range p.Team {
		if member == userID {
			return true
		}
	}
	return false
}

// CanAccess reports whether userID may read the project and its tasks:
// the manager and every team member may, nobody else. Mutating the project
// itself additionally requires IsManager.
func (p *Project) CanAccess(userID bson.ObjectID) bool {
	return p.IsManager(userID) || p.HasMember(userID)
}
