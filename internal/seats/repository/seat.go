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

	seatserrors "studyhall/internal/seats/errors"
	"studyhall/pkg/config"
	mongotx "studyhall/pkg/db/mongo"
	"studyhall/pkg/model"
)

const (
	CollectionName = "Seats"
)

type SeatRepository interface {
	Create(ctx context.Context, seat *model.Seat) error
	FindByID(ctx context.Context, id string) (*model.Seat, error)
	FindAll(ctx context.Context, filter model.SeatFilter, limit int, offset int64) ([]*model.Seat, error)
	Count(ctx context.Context, filter model.SeatFilter) (int64, error)
	ListAll(ctx context.Context) ([]*model.Seat, error)
	Update(ctx context.Context, id string, seat *model.Seat) error
	UpdateStatus(ctx context.Context, id string, status string) error
	SetOccupancy(ctx context.Context, id string, occ model.Occupancy) error
	BumpVersion(ctx context.Context, id string) (*model.Seat, error)
	Delete(ctx context.Context, id string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSeatRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSeatRepository(cfg *config.Config) SeatRepository {
	return &mongoSeatRepository{
		cfg:        cfg,
		collection: cfg.Database().Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Mongo),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", seatserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func filterQuery(filter model.SeatFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	return query
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoSeatRepository) Create(ctx context.Context, seat *model.Seat) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	seat.CreatedAt = now()
	seat.UpdatedAt = seat.CreatedAt
	result, err := r.collection.InsertOne(ctx, seat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", seatserrors.ErrDuplicateSeatNumber, seat.SeatNumber)
		}
		return fmt.Errorf("failed to create seat: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		seat.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSeatRepository) FindByID(ctx context.Context, id string) (*model.Seat, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var seat model.Seat
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&seat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", seatserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find seat: %w", err)
	}
	return &seat, nil
}

func (r *mongoSeatRepository) FindAll(ctx context.Context, filter model.SeatFilter, limit int, offset int64) ([]*model.Seat, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "seat_number", Value: 1}})

	return r.find(ctx, filterQuery(filter), opts)
}

func (r *mongoSeatRepository) ListAll(ctx context.Context) ([]*model.Seat, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seat_number", Value: 1}}))
}

func (r *mongoSeatRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*model.Seat, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query seats: %w", err)
	}
	defer cursor.Close(ctx)

	seats := []*model.Seat{}
	if err := cursor.All(ctx, &seats); err != nil {
		return nil, fmt.Errorf("failed to decode seats: %w", err)
	}
	return seats, nil
}

func (r *mongoSeatRepository) Count(ctx context.Context, filter model.SeatFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count seats: %w", err)
	}
	return count, nil
}

func (r *mongoSeatRepository) Update(ctx context.Context, id string, seat *model.Seat) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	seat.UpdatedAt = now()
	update := bson.M{"$set": bson.M{
		"seat_number": seat.SeatNumber,
		"type":        seat.Type,
		"price":       seat.Price,
		"description": seat.Description,
		"updated_at":  seat.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", seatserrors.ErrDuplicateSeatNumber, seat.SeatNumber)
		}
		return fmt.Errorf("failed to update seat: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", seatserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoSeatRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update seat status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", seatserrors.ErrNotFound, id)
	}
	return nil
}

// SetOccupancy writes the booking-derived fields of a seat. The booking
// fields are removed when the seat is no longer occupied.
func (r *mongoSeatRepository) SetOccupancy(ctx context.Context, id string, occ model.Occupancy) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	var update bson.M
	if occ.Status == model.SeatOccupied {
		update = bson.M{"$set": bson.M{
			"status":        occ.Status,
			"student_id":    occ.StudentID,
			"booking_id":    occ.BookingID,
			"booking_start": occ.BookingStart,
			"booking_end":   occ.BookingEnd,
			"updated_at":    now(),
		}}
	} else {
		update = bson.M{
			"$set": bson.M{"status": occ.Status, "updated_at": now()},
			"$unset": bson.M{
				"student_id":    "",
				"booking_id":    "",
				"booking_start": "",
				"booking_end":   "",
			},
		}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update seat occupancy: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", seatserrors.ErrNotFound, id)
	}
	return nil
}

// BumpVersion increments the seat's version and returns the updated seat.
// Inside a transaction this is the write that makes concurrent transactions
// touching the same seat conflict.
func (r *mongoSeatRepository) BumpVersion(ctx context.Context, id string) (*model.Seat, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var seat model.Seat
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"version": 1}}, opts).Decode(&seat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", seatserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to bump seat version: %w", err)
	}
	return &seat, nil
}

func (r *mongoSeatRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete seat: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", seatserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoSeatRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
