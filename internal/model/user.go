package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account in the system. Email is unique across all
// users and always stored lowercase. A user starts unconfirmed and becomes
// confirmed exactly once, by redeeming a confirmation token.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"  json:"id"`
	Email        string        `bson:"email"          json:"email"`
	PasswordHash string        `bson:"password_hash"  json:"-"`
	Name         string        `bson:"name"           json:"name"`
	Lastname     string        `bson:"lastname"       json:"lastname"`
	Confirmed    bool          `bson:"confirmed"      json:"confirmed"`
	ProfileImage *string       `bson:"profile_image"  json:"profileImage"`
	CreatedAt    time.Time     `bson:"created_at"     json:"-"`
	UpdatedAt    time.Time     `bson:"updated_at"     json:"-"`
}
