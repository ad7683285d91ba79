package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyhall/internal/ledger"
	operationserrors "studyhall/internal/operations/errors"
	"studyhall/pkg/config"
	mongotx "studyhall/pkg/db/mongo"
	"studyhall/pkg/model"
)

const (
	CollectionName = "Operation_records"
)

type OperationRepository interface {
	Create(ctx context.Context, record *model.OperationRecord) error
	FindByID(ctx context.Context, id string) (*model.OperationRecord, error)
	FindAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.OperationRecord, error)
	Count(ctx context.Context, filter model.LedgerFilter) (int64, error)
	Update(ctx context.Context, id string, record *model.OperationRecord) error
	Delete(ctx context.Context, id string) error
	Summarize(ctx context.Context, filter model.LedgerFilter, bucket string) ([]model.LedgerSummaryRow, error)
}

type mongoOperationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoOperationRepository(cfg *config.Config) OperationRepository {
	return &mongoOperationRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", operationserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoOperationRepository) Create(ctx context.Context, record *model.OperationRecord) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create operation record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOperationRepository) FindByID(ctx context.Context, id string) (*model.OperationRecord, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var record model.OperationRecord
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", operationserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find operation record: %w", err)
	}
	return &record, nil
}

func (r *mongoOperationRepository) FindAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.OperationRecord, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, ledger.Query(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []*model.OperationRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode operation records: %w", err)
	}
	return records, nil
}

func (r *mongoOperationRepository) Count(ctx context.Context, filter model.LedgerFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, ledger.Query(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count operation records: %w", err)
	}
	return count, nil
}

func (r *mongoOperationRepository) Update(ctx context.Context, id string, record *model.OperationRecord) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"type":         record.Type,
		"description":  record.Description,
		"performed_by": record.PerformedBy,
		"occurred_at":  record.OccurredAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update operation record: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", operationserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoOperationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete operation record: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", operationserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoOperationRepository) Summarize(ctx context.Context, filter model.LedgerFilter, bucket string) ([]model.LedgerSummaryRow, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, ledger.SummaryPipeline(filter, bucket))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate operation records: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []model.LedgerSummaryRow{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode operation summary: %w", err)
	}
	return rows, nil
}
