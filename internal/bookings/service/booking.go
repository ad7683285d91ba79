package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	bookingserrors "studyhall/internal/bookings/errors"
	"studyhall/internal/bookings/repository"
	"studyhall/internal/bookings/validator"
	seatserrors "studyhall/internal/seats/errors"
	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/events"
	"studyhall/pkg/metrics"
	"studyhall/pkg/model"
	"studyhall/pkg/sanitizer"
	"studyhall/pkg/validation"
)

// SeatStore is the part of the seat registry a booking transaction writes
// to. The seats repository satisfies it.
type SeatStore interface {
	BumpVersion(ctx context.Context, id string) (*model.Seat, error)
	SetOccupancy(ctx context.Context, id string, occ model.Occupancy) error
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, from, to *time.Time) (*model.BookingSummary, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	seats     SeatStore
	validator *validator.BookingValidator
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	seats SeatStore,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	m *metrics.Metrics,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		seats:     seats,
		validator: validator,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// Create stores a booking. The seat's version bump, the overlap check, the
// insert and the occupancy refresh form one transaction; two requests for
// the same seat conflict on the seat document and the retried loser sees the
// winner's booking.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = ""
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}
	if booking.Status == model.BookingCancelled {
		return apperrors.Validation("A new booking cannot be cancelled", map[string]any{
			"status": booking.Status,
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		// A retried attempt must insert a fresh document.
		booking.ID = ""
		seat, err := s.seats.BumpVersion(txCtx, booking.SeatID)
		if err != nil {
			return err
		}
		if booking.IsActive() && seat.Status == model.SeatMaintenance {
			return apperrors.Conflict("Seat is under maintenance").
				WithDetails(map[string]any{"seat_id": seat.ID})
		}
		booking.SeatNumber = seat.SeatNumber
		booking.Amount = seat.Price

		active, err := s.repo.FindActiveBySeat(txCtx, booking.SeatID)
		if err != nil {
			return fmt.Errorf("failed to load active bookings: %w", err)
		}
		if booking.IsActive() {
			if err := s.checkOverlap(active, booking); err != nil {
				return err
			}
		}

		if err := s.repo.Create(txCtx, booking); err != nil {
			return err
		}
		return s.syncOccupancy(txCtx, seat, replaceBooking(active, booking))
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to create booking",
			"seat_id", booking.SeatID,
			"student_id", booking.StudentID,
			"error", err,
		)
		return s.translate(err, booking.SeatID, "Failed to create booking")
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"seat_id", booking.SeatID,
		"student_id", booking.StudentID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	s.publish(ctx, events.BookingCreated, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	switch filter.Status {
	case "", model.BookingActive, model.BookingCancelled, model.BookingCompleted:
	default:
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status %q", filter.Status))
	}
	filter.StudentID = strings.TrimSpace(filter.StudentID)
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		count    int64
		bookings []*model.Booking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			return apperrors.Internal("Failed to count bookings", err)
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(gctx, s.cfg.ReadTimeout)
		defer cancel()
		var err error
		bookings, err = s.repo.FindAll(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			return apperrors.Internal("Failed to retrieve bookings", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

// Update applies a partial update. Cancelling or completing a booking
// releases its seat; re-activating one runs the overlap check again.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, validation.ToAppError("Invalid update input", err)
	}

	var (
		merged    *model.Booking
		eventType = events.BookingUpdated
	)
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		seat, err := s.seats.BumpVersion(txCtx, existing.SeatID)
		if errors.Is(err, seatserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Seat", existing.SeatID)
		}
		if err != nil {
			return err
		}

		merged = mergeBookingUpdates(existing, updates)
		s.sanitize(merged)
		if err := s.validate(merged); err != nil {
			return err
		}

		active, err := s.repo.FindActiveBySeat(txCtx, existing.SeatID)
		if err != nil {
			return fmt.Errorf("failed to load active bookings: %w", err)
		}
		if merged.IsActive() {
			if !existing.IsActive() && seat.Status == model.SeatMaintenance {
				return apperrors.Conflict("Seat is under maintenance").
					WithDetails(map[string]any{"seat_id": seat.ID})
			}
			if err := s.checkOverlap(active, merged); err != nil {
				return err
			}
		}

		if err := s.repo.Update(txCtx, id, merged); err != nil {
			return err
		}
		eventType = updateEventType(existing.Status, merged.Status)
		return s.syncOccupancy(txCtx, seat, replaceBooking(active, merged))
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to update booking", "id", id, "error", err)
		return nil, s.translate(err, id, "Failed to update booking")
	}

	s.cfg.Log.Info("Booking updated", "id", id, "status", merged.Status)
	s.publish(ctx, eventType, merged)
	return merged, nil
}

// Delete removes a booking. The seat stays occupied while other active
// bookings remain.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var deleted *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		deleted = existing

		seat, err := s.seats.BumpVersion(txCtx, existing.SeatID)
		if errors.Is(err, seatserrors.ErrNotFound) {
			return s.repo.Delete(txCtx, id)
		}
		if err != nil {
			return err
		}

		active, err := s.repo.FindActiveBySeat(txCtx, existing.SeatID)
		if err != nil {
			return fmt.Errorf("failed to load active bookings: %w", err)
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.syncOccupancy(txCtx, seat, removeBooking(active, id))
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to delete booking", "id", id, "error", err)
		return s.translate(err, id, "Failed to delete booking")
	}

	s.cfg.Log.Info("Booking deleted", "id", id, "seat_id", deleted.SeatID)
	s.publish(ctx, events.BookingDeleted, deleted)
	return nil
}

// Summary reports on the bookings overlapping [from, to). Revenue and the
// seat count leave cancelled bookings out.
func (s *bookingService) Summary(ctx context.Context, from, to *time.Time) (*model.BookingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	totals, err := s.repo.TotalsByStatus(ctx, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to summarize bookings", "error", err)
		return nil, s.translate(err, "", "Failed to summarize bookings")
	}
	return summarize(totals, from, to), nil
}

func summarize(totals []repository.StatusTotal, from, to *time.Time) *model.BookingSummary {
	summary := &model.BookingSummary{
		From: from,
		To:   to,
		ByStatus: map[string]int64{
			model.BookingActive:    0,
			model.BookingCancelled: 0,
			model.BookingCompleted: 0,
		},
	}

	seats := make(map[string]struct{})
	for _, t := range totals {
		summary.TotalBookings += t.Count
		summary.ByStatus[t.Status] += t.Count
		if t.Status == model.BookingCancelled {
			continue
		}
		summary.Revenue += t.Amount
		for _, id := range t.Seats {
			seats[id] = struct{}{}
		}
	}
	summary.SeatsBooked = int64(len(seats))
	return summary
}

func (s *bookingService) checkOverlap(active []*model.Booking, booking *model.Booking) error {
	for _, other := range active {
		if other.ID == booking.ID {
			continue
		}
		if other.Overlaps(booking.StartTime, booking.EndTime) {
			s.metrics.BookingConflict()
			return apperrors.Conflict(fmt.Sprintf(
				"Booking overlaps with existing booking (%s - %s)",
				other.StartTime.Format(time.RFC3339),
				other.EndTime.Format(time.RFC3339),
			)).WithDetails(map[string]any{
				"conflicting_booking_id": other.ID,
				"seat_id":                booking.SeatID,
			})
		}
	}
	return nil
}

// syncOccupancy mirrors the seat's earliest active booking onto the seat. A
// seat under maintenance keeps its status while it has no active bookings.
func (s *bookingService) syncOccupancy(ctx context.Context, seat *model.Seat, active []*model.Booking) error {
	occ := model.OccupancyFor(active)
	if occ.Status == model.SeatAvailable && seat.Status == model.SeatMaintenance {
		return nil
	}
	return s.seats.SetOccupancy(ctx, seat.ID, occ)
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if err := s.publisher.PublishBooking(ctx, events.NewBookingEvent(eventType, booking)); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// updateEventType names the event for a status change. A booking is charged
// unless cancelled, so leaving or re-entering the cancelled state moves money.
func updateEventType(from, to string) string {
	wasCharged := from != model.BookingCancelled
	isCharged := to != model.BookingCancelled
	switch {
	case wasCharged && !isCharged:
		return events.BookingCancelled
	case !wasCharged && isCharged:
		return events.BookingReactivated
	default:
		return events.BookingUpdated
	}
}

// replaceBooking returns the active set after booking's write: any previous
// version is dropped and booking is added back only while active.
func replaceBooking(active []*model.Booking, booking *model.Booking) []*model.Booking {
	out := removeBooking(active, booking.ID)
	if booking.IsActive() {
		out = append(out, booking)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartTime.Before(out[j].StartTime)
		})
	}
	return out
}

func removeBooking(active []*model.Booking, id string) []*model.Booking {
	out := make([]*model.Booking, 0, len(active)+1)
	for _, b := range active {
		if id != "" && b.ID == id {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingActive
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.SeatID = strings.TrimSpace(b.SeatID)
	b.StudentID = strings.TrimSpace(b.StudentID)
	b.StudentName = sanitizer.SanitizeName(b.StudentName)
	b.StudentPhone = sanitizer.SanitizePhone(b.StudentPhone)
	b.Notes = sanitizer.SanitizeText(b.Notes)
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validation.ToAppError("Booking validation failed", err)
	}
	return nil
}

func mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.StudentID != "" {
		merged.StudentID = updates.StudentID
	}
	if updates.StudentName != nil {
		merged.StudentName = *updates.StudentName
	}
	if updates.StudentPhone != nil {
		merged.StudentPhone = *updates.StudentPhone
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *bookingService) translate(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, seatserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Seat", id)
	case errors.Is(err, seatserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid seat ID format")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(message)
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
