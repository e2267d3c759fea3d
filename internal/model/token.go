package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Token is a single-use, time-bound credential bound to one user. It is
// minted on registration, on confirmation-code re-requests and on
// forgot-password, and deleted on successful redemption. Several tokens may
// exist for the same user at once; redeeming any one of them consumes only
// that token.
type Token struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Token     string        `bson:"token"`
	UserID    bson.ObjectID `bson:"user_id"`
	ExpiresAt time.Time     `bson:"expires_at"`
	CreatedAt time.Time     `bson:"created_at"`
}

// Expired reports whether the token is past its expiry. The store carries a
// TTL index on expires_at, but TTL sweeps run on a coarse interval, so
// redemption checks expiry explicitly as well.
func (t *Token) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
