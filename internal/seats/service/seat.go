package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	seatserrors "studyhall/internal/seats/errors"
	"studyhall/internal/seats/repository"
	"studyhall/internal/seats/validator"
	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/model"
	"studyhall/pkg/sanitizer"
	"studyhall/pkg/validation"
)

// ActiveBookingReader lists the active bookings of a seat ordered by start
// time. The bookings repository satisfies it.
type ActiveBookingReader interface {
	FindActiveBySeat(ctx context.Context, seatID string) ([]*model.Booking, error)
}

type SeatService interface {
	Create(ctx context.Context, seat *model.Seat) error
	GetByID(ctx context.Context, id string) (*model.Seat, error)
	GetAll(ctx context.Context, filter model.SeatFilter, limit int, offset int64) ([]*model.Seat, int64, error)
	Update(ctx context.Context, id string, updates *model.SeatUpdate) (*model.Seat, error)
	UpdateStatus(ctx context.Context, id string, update *model.SeatStatusUpdate) (*model.Seat, error)
	Delete(ctx context.Context, id string) error

	Types() []model.SeatTypeInfo
	Summary(ctx context.Context) (*model.SeatSummary, error)
	Availability(ctx context.Context, id string, from, to *time.Time) (*model.SeatAvailability, error)
}

type seatService struct {
	repo      repository.SeatRepository
	bookings  ActiveBookingReader
	validator *validator.SeatValidator
	cfg       *config.Config
}

func NewSeatService(
	repo repository.SeatRepository,
	bookings ActiveBookingReader,
	validator *validator.SeatValidator,
	cfg *config.Config,
) SeatService {
	return &seatService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *seatService) Create(ctx context.Context, seat *model.Seat) error {
	seat.ID = ""
	seat.Version = 0
	seat.SeatNumber = sanitizer.SanitizeSeatNumber(seat.SeatNumber)
	seat.Description = sanitizer.SanitizeText(seat.Description)
	if seat.Type == "" {
		seat.Type = model.SeatRegular
	}
	if seat.Status == "" {
		seat.Status = model.SeatAvailable
	}
	clearOccupancy(seat)

	if err := s.validator.Validate(seat); err != nil {
		s.cfg.Log.Warn("Seat validation failed",
			"seat_number", seat.SeatNumber,
			"error", err,
		)
		return validation.ToAppError("Seat validation failed", err)
	}

	if err := s.repo.Create(ctx, seat); err != nil {
		return s.translate(err, seat.ID, "Failed to create seat")
	}

	s.cfg.Log.Info("Seat created",
		"id", seat.ID,
		"seat_number", seat.SeatNumber,
		"type", seat.Type,
	)
	return nil
}

func (s *seatService) GetByID(ctx context.Context, id string) (*model.Seat, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Seat ID cannot be empty")
	}

	seat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve seat")
	}
	return seat, nil
}

func (s *seatService) GetAll(ctx context.Context, filter model.SeatFilter, limit int, offset int64) ([]*model.Seat, int64, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		count int64
		seats []*model.Seat
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count seats", "error", err)
			return apperrors.Internal("Failed to count seats", err)
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		seats, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list seats",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			return apperrors.Internal("Failed to retrieve seats", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return seats, count, nil
}

func (s *seatService) Update(ctx context.Context, id string, updates *model.SeatUpdate) (*model.Seat, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Seat ID cannot be empty")
	}

	updates.SeatNumber = sanitizer.SanitizeSeatNumber(updates.SeatNumber)
	if updates.Description != nil {
		desc := sanitizer.SanitizeText(*updates.Description)
		updates.Description = &desc
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validation.ToAppError("Seat validation failed", err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to check seat existence")
	}

	merged := mergeSeatUpdates(existing, updates)
	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update seat", "id", id, "error", err)
		return nil, s.translate(err, id, "Failed to update seat")
	}

	s.cfg.Log.Info("Seat updated", "id", id, "seat_number", merged.SeatNumber)
	return merged, nil
}

// UpdateStatus switches a seat between available and maintenance. The
// version bump, the active booking check and the write share a transaction,
// so a booking created concurrently either wins or sees the new status.
func (s *seatService) UpdateStatus(ctx context.Context, id string, update *model.SeatStatusUpdate) (*model.Seat, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Seat ID cannot be empty")
	}
	if err := s.validator.ValidateStatus(update); err != nil {
		return nil, validation.ToAppError("Seat status validation failed", err)
	}

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		seat, err := s.repo.BumpVersion(txCtx, id)
		if err != nil {
			return err
		}

		if update.Status == model.SeatOccupied {
			if seat.Status == model.SeatOccupied {
				return apperrors.Conflict("Seat is already occupied")
			}
			return apperrors.Validation("A seat becomes occupied only through a booking", map[string]any{
				"status": update.Status,
			})
		}

		active, err := s.bookings.FindActiveBySeat(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to check active bookings: %w", err)
		}
		if len(active) > 0 {
			return apperrors.Conflict(fmt.Sprintf("Seat has %d active booking(s)", len(active))).
				WithDetails(map[string]any{"active_bookings": len(active)})
		}

		if seat.Status == update.Status {
			return nil
		}
		return s.repo.UpdateStatus(txCtx, id, update.Status)
	})
	if err != nil {
		s.cfg.Log.Warn("Seat status change rejected",
			"id", id,
			"status", update.Status,
			"error", err,
		)
		return nil, s.translate(err, id, "Failed to update seat status")
	}

	s.cfg.Log.Info("Seat status changed", "id", id, "status", update.Status)
	return s.GetByID(ctx, id)
}

func (s *seatService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Seat ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.BumpVersion(txCtx, id); err != nil {
			return err
		}

		active, err := s.bookings.FindActiveBySeat(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to check active bookings: %w", err)
		}
		if len(active) > 0 {
			return apperrors.Conflict(fmt.Sprintf("Cannot delete seat with %d active booking(s)", len(active))).
				WithDetails(map[string]any{"active_bookings": len(active)})
		}

		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to delete seat", "id", id, "error", err)
		return s.translate(err, id, "Failed to delete seat")
	}

	s.cfg.Log.Info("Seat deleted", "id", id)
	return nil
}

func (s *seatService) Types() []model.SeatTypeInfo {
	types := make([]model.SeatTypeInfo, len(model.SeatTypes))
	copy(types, model.SeatTypes)
	return types
}

func (s *seatService) Summary(ctx context.Context) (*model.SeatSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	seats, err := s.repo.ListAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load seats for summary", "error", err)
		return nil, apperrors.Internal("Failed to summarize seats", err)
	}
	return summarize(seats), nil
}

func summarize(seats []*model.Seat) *model.SeatSummary {
	summary := &model.SeatSummary{
		TotalSeats: int64(len(seats)),
		ByStatus: map[string]int64{
			model.SeatAvailable:   0,
			model.SeatOccupied:    0,
			model.SeatMaintenance: 0,
		},
		ByType: map[string]int64{
			model.SeatRegular: 0,
			model.SeatPremium: 0,
			model.SeatGroup:   0,
		},
	}

	for _, seat := range seats {
		summary.ByStatus[seat.Status]++
		summary.ByType[seat.Type]++
		summary.TotalRevenuePotential += seat.Price
		if seat.Status == model.SeatAvailable {
			summary.AvailableRevenuePotential += seat.Price
		}
	}
	return summary
}

// Availability reports whether a seat can be booked for [from, to). Without
// a range the question is whether the seat is free right now; with only one
// bound the range is open on the other side.
func (s *seatService) Availability(ctx context.Context, id string, from, to *time.Time) (*model.SeatAvailability, error) {
	seat, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	active, err := s.bookings.FindActiveBySeat(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to load active bookings", "seat_id", id, "error", err)
		return nil, apperrors.Internal("Failed to check seat availability", err)
	}

	start, end := availabilityWindow(from, to, time.Now().UTC())
	conflicts := []*model.Booking{}
	for _, b := range active {
		if b.Overlaps(start, end) {
			conflicts = append(conflicts, b)
		}
	}

	return &model.SeatAvailability{
		SeatID:     seat.ID,
		SeatNumber: seat.SeatNumber,
		Status:     seat.Status,
		Available:  seat.Status != model.SeatMaintenance && len(conflicts) == 0,
		From:       from,
		To:         to,
		Conflicts:  conflicts,
	}, nil
}

var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func availabilityWindow(from, to *time.Time, now time.Time) (time.Time, time.Time) {
	if from == nil && to == nil {
		return now, now.Add(time.Nanosecond)
	}
	start, end := time.Time{}, farFuture
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return start, end
}

func validateFilter(filter model.SeatFilter) error {
	switch filter.Status {
	case "", model.SeatAvailable, model.SeatOccupied, model.SeatMaintenance:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("Unknown seat status %q", filter.Status))
	}
	switch filter.Type {
	case "", model.SeatRegular, model.SeatPremium, model.SeatGroup:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("Unknown seat type %q", filter.Type))
	}
	return nil
}

func mergeSeatUpdates(existing *model.Seat, updates *model.SeatUpdate) *model.Seat {
	merged := *existing
	if updates.SeatNumber != "" {
		merged.SeatNumber = updates.SeatNumber
	}
	if updates.Type != "" {
		merged.Type = updates.Type
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	return &merged
}

func clearOccupancy(seat *model.Seat) {
	seat.StudentID = ""
	seat.BookingID = ""
	seat.BookingStart = nil
	seat.BookingEnd = nil
}

func (s *seatService) translate(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, seatserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Seat", id)
	case errors.Is(err, seatserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid seat ID format")
	case errors.Is(err, seatserrors.ErrDuplicateSeatNumber):
		return apperrors.Conflict(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(message)
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
