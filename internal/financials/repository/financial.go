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

	financialserrors "studyhall/internal/financials/errors"
	"studyhall/internal/ledger"
	"studyhall/pkg/config"
	mongotx "studyhall/pkg/db/mongo"
	"studyhall/pkg/model"
)

const (
	CollectionName = "Financial_records"
)

type FinancialRepository interface {
	Create(ctx context.Context, record *model.FinancialRecord) error
	FindByID(ctx context.Context, id string) (*model.FinancialRecord, error)
	FindAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.FinancialRecord, error)
	Count(ctx context.Context, filter model.LedgerFilter) (int64, error)
	Update(ctx context.Context, id string, record *model.FinancialRecord) error
	Delete(ctx context.Context, id string) error
	Summarize(ctx context.Context, filter model.LedgerFilter, bucket string) ([]model.LedgerSummaryRow, error)
}

type mongoFinancialRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFinancialRepository(cfg *config.Config) FinancialRepository {
	return &mongoFinancialRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", financialserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoFinancialRepository) Create(ctx context.Context, record *model.FinancialRecord) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	record.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create financial record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFinancialRepository) FindByID(ctx context.Context, id string) (*model.FinancialRecord, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var record model.FinancialRecord
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", financialserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find financial record: %w", err)
	}
	return &record, nil
}

func (r *mongoFinancialRepository) FindAll(ctx context.Context, filter model.LedgerFilter, limit int, offset int64) ([]*model.FinancialRecord, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, ledger.Query(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query financial records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []*model.FinancialRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode financial records: %w", err)
	}
	return records, nil
}

func (r *mongoFinancialRepository) Count(ctx context.Context, filter model.LedgerFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, ledger.Query(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count financial records: %w", err)
	}
	return count, nil
}

func (r *mongoFinancialRepository) Update(ctx context.Context, id string, record *model.FinancialRecord) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"type":        record.Type,
		"category":    record.Category,
		"amount":      record.Amount,
		"description": record.Description,
		"occurred_at": record.OccurredAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update financial record: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", financialserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoFinancialRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete financial record: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", financialserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoFinancialRepository) Summarize(ctx context.Context, filter model.LedgerFilter, bucket string) ([]model.LedgerSummaryRow, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, ledger.SummaryPipeline(filter, bucket))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate financial records: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []model.LedgerSummaryRow{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode financial summary: %w", err)
	}
	return rows, nil
}
