package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LocksCollection = "Locks"

// Lock is a named lease. The Locks collection has a TTL index on expires_at,
// so an owner that dies without releasing loses the lease eventually; Acquire
// also takes over leases whose expiry has already passed.
type Lock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type LeaseManager interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

type mongoLeaseManager struct {
	collection *mongo.Collection
	owner      string
}

func NewLeaseManager(db *mongo.Database) LeaseManager {
	return &mongoLeaseManager{
		collection: db.Collection(LocksCollection),
		owner:      uuid.NewString(),
	}
}

func (m *mongoLeaseManager) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	lock := Lock{
		ID:        name,
		Owner:     m.owner,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := m.collection.InsertOne(ctx, lock)
	if err == nil {
		return true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, fmt.Errorf("failed to acquire lease %s: %w", name, err)
	}

	filter := bson.M{
		"_id": name,
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$lte": now}},
			bson.M{"owner": m.owner},
		},
	}
	update := bson.M{"$set": bson.M{"owner": m.owner, "expires_at": lock.ExpiresAt}}
	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to take over lease %s: %w", name, err)
	}
	return result.MatchedCount == 1, nil
}

func (m *mongoLeaseManager) Release(ctx context.Context, name string) error {
	_, err := m.collection.DeleteOne(ctx, bson.M{"_id": name, "owner": m.owner})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to release lease %s: %w", name, err)
	}
	return nil
}
