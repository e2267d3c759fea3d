package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ptescayola/uptask-backend/internal/model"
)

// TokenRepository defines the interface for confirmation and password-reset
// token operations. Tokens are single-use: redemption deletes them.
type TokenRepository interface {
	CreateToken(ctx context.Context, token *model.Token) (*model.Token, error)
	GetTokenByValue(ctx context.Context, value string) (*model.Token, error)
	DeleteToken(ctx context.Context, id string) error
}

const tokenCollection = "tokens"

type tokenMongoRepository struct {
	db *mongo.Database
}

// NewTokenMongoRepository creates a new MongoDB repository for tokens. A
// TTL index reaps tokens past their expiry; redemption-time code still
// checks expiry itself because TTL sweeps are periodic.
func NewTokenMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) TokenRepository {
	collection := db.Collection(tokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "token", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token indexes")
	}

	return &tokenMongoRepository{db: db}
}

func (r *tokenMongoRepository) CreateToken(ctx context.Context, token *model.Token) (*model.Token, error) {
	token.CreatedAt = time.Now()

	result, err := r.db.Collection(tokenCollection).InsertOne(ctx, token)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		token.ID = objectID
	}

	return token, nil
}

func (r *tokenMongoRepository) GetTokenByValue(ctx context.Context, value string) (*model.Token, error) {
	var token model.Token
	err := r.db.Collection(tokenCollection).FindOne(ctx, bson.M{"token": value}).Decode(&token)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *tokenMongoRepository) DeleteToken(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(tokenCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
