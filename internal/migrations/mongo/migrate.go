package mongo

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "studyhall/internal/bookings/repository"
	financialsrepo "studyhall/internal/financials/repository"
	"studyhall/internal/migrations/mongo/validators"
	operationsrepo "studyhall/internal/operations/repository"
	seatsrepo "studyhall/internal/seats/repository"
	sessionsrepo "studyhall/internal/sessions/repository"
	mongotx "studyhall/pkg/db/mongo"
	"studyhall/pkg/logger"
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	SeatsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seat_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("seat_number_unique"),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "type", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "seat_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "student_id", Value: 1},
			{Key: "start_time", Value: -1},
		}},
		{Keys: bson.D{{Key: "start_time", Value: 1}, {Key: "end_time", Value: 1}}},
	}

	LedgerIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	RefreshTokensIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("token_hash_unique"),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_revoked", Value: 1}}},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
		},
	}

	LocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
		},
	}
)

// Collections maps every collection the service uses to its schema
// validator and indexes.
func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		seatsrepo.CollectionName: {
			Indexes:   SeatsIndexes,
			Validator: validators.SeatValidator,
		},
		bookingsrepo.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		financialsrepo.CollectionName: {
			Indexes:   LedgerIndexes,
			Validator: validators.FinancialRecordValidator,
		},
		operationsrepo.CollectionName: {
			Indexes:   LedgerIndexes,
			Validator: validators.OperationRecordValidator,
		},
		sessionsrepo.CollectionName: {
			Indexes:   RefreshTokensIndexes,
			Validator: validators.RefreshTokenValidator,
		},
		mongotx.LocksCollection: {
			Indexes:   LocksIndexes,
			Validator: validators.LockValidator,
		},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	collections := Collections()
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := collections[name]
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied", "collections", len(names))
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
