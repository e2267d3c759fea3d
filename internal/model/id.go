package model

import "go.mongodb.org/mongo-driver/v2/bson"

// NewID returns a fresh ObjectID, for documents whose id must be known
// before they are inserted (paired writes reference each other by id).
func NewID() bson.ObjectID {
	return bson.NewObjectID()
}
