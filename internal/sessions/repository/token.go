package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	sessionserrors "studyhall/internal/sessions/errors"
	"studyhall/pkg/config"
	mongotx "studyhall/pkg/db/mongo"
	"studyhall/pkg/model"
)

const (
	CollectionName = "Refresh_tokens"
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, hash string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type mongoTokenRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTokenRepository(cfg *config.Config) TokenRepository {
	return &mongoTokenRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func (r *mongoTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	token.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sessionserrors.ErrDuplicateToken
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		token.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTokenRepository) FindByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var token model.RefreshToken
	if err := r.collection.FindOne(ctx, bson.M{"token_hash": hash}).Decode(&token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sessionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &token, nil
}

// Revoke marks the token revoked. Revoking an already revoked token keeps
// the original revoked_at.
func (r *mongoTokenRepository) Revoke(ctx context.Context, hash string, at time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"token_hash": hash, "is_revoked": false}
	update := bson.M{"$set": bson.M{"is_revoked": true, "revoked_at": at}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"token_hash": hash})
	if err != nil {
		return fmt.Errorf("failed to check refresh token: %w", err)
	}
	if count == 0 {
		return sessionserrors.ErrNotFound
	}
	return nil
}

func (r *mongoTokenRepository) RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "is_revoked": false}
	update := bson.M{"$set": bson.M{"is_revoked": true, "revoked_at": at}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens of user %s: %w", userID, err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": before}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return result.DeletedCount, nil
}
