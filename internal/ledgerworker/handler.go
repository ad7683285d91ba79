// Package ledgerworker turns booking events into ledger records.
//
// Every event becomes an operation record. Creations and reactivations also
// book income and cancellations book a refund for the booking amount, so the
// net of one booking is its amount while it is charged and zero once it is
// cancelled. Delivery is
// at-least-once, so a redelivered event may be recorded twice.
package ledgerworker

import (
	"context"
	"fmt"

	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/events"
	"studyhall/pkg/kafka"
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
)

const (
	performedBy = "ledger-worker"

	categoryBooking = "booking"
	categoryRefund  = "refund"
)

type FinancialRecorder interface {
	Create(ctx context.Context, record *model.FinancialRecord) error
}

type OperationRecorder interface {
	Create(ctx context.Context, record *model.OperationRecord) error
}

type Handler struct {
	financials FinancialRecorder
	operations OperationRecorder
	log        *logger.Logger
}

func NewHandler(financials FinancialRecorder, operations OperationRecorder, log *logger.Logger) *Handler {
	return &Handler{
		financials: financials,
		operations: operations,
		log:        log,
	}
}

// Handle is a kafka.MessageHandler. Malformed payloads and records the
// ledger rejects are permanent failures; storage trouble is transient.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("decode booking event", err)
	}
	if event.Type == "" {
		event.Type = msg.GetEventType()
	}

	opType, ok := operationTypes[event.Type]
	if !ok {
		h.log.Warn("Ignoring unknown booking event", "event_type", event.Type, "event_id", msg.GetEventID())
		return nil
	}

	op := &model.OperationRecord{
		Type:        opType,
		Description: describe(event),
		SeatID:      event.SeatID,
		BookingID:   event.BookingID,
		PerformedBy: performedBy,
		OccurredAt:  event.OccurredAt,
	}
	if err := h.operations.Create(ctx, op); err != nil {
		return classify("record operation", err)
	}

	if fin := financialFor(event); fin != nil {
		if err := h.financials.Create(ctx, fin); err != nil {
			return classify("record financial", err)
		}
		h.log.Info("Ledger updated from booking event",
			"event_type", event.Type,
			"booking_id", event.BookingID,
			"financial_type", fin.Type,
			"amount", fin.Amount,
		)
	}
	return nil
}

var operationTypes = map[string]string{
	events.BookingCreated:     model.OperationBookingCreated,
	events.BookingUpdated:     model.OperationBookingUpdated,
	events.BookingCancelled:   model.OperationBookingCancelled,
	events.BookingReactivated: model.OperationBookingUpdated,
	events.BookingDeleted:     model.OperationOther,
}

func describe(e events.BookingEvent) string {
	switch e.Type {
	case events.BookingCreated:
		return fmt.Sprintf("Seat %s booked by %s from %s to %s", e.SeatNumber, e.StudentID,
			e.StartTime.Format("2006-01-02 15:04"), e.EndTime.Format("2006-01-02 15:04"))
	case events.BookingCancelled:
		return fmt.Sprintf("Booking of seat %s by %s cancelled", e.SeatNumber, e.StudentID)
	case events.BookingReactivated:
		return fmt.Sprintf("Booking of seat %s by %s reactivated", e.SeatNumber, e.StudentID)
	case events.BookingDeleted:
		return fmt.Sprintf("Booking of seat %s by %s deleted", e.SeatNumber, e.StudentID)
	default:
		return fmt.Sprintf("Booking of seat %s by %s updated (%s)", e.SeatNumber, e.StudentID, e.Status)
	}
}

// financialFor returns nil for events that move no money. Free bookings
// carry no amount and are skipped too.
func financialFor(e events.BookingEvent) *model.FinancialRecord {
	if e.Amount <= 0 {
		return nil
	}

	record := &model.FinancialRecord{
		Amount:      e.Amount,
		BookingID:   e.BookingID,
		SeatID:      e.SeatID,
		OccurredAt:  e.OccurredAt,
		Description: fmt.Sprintf("Seat %s, student %s", e.SeatNumber, e.StudentID),
	}
	switch e.Type {
	case events.BookingCreated, events.BookingReactivated:
		record.Type = model.FinancialIncome
		record.Category = categoryBooking
	case events.BookingCancelled:
		record.Type = model.FinancialRefund
		record.Category = categoryRefund
	default:
		return nil
	}
	return record
}

func classify(op string, err error) error {
	if apperrors.HasCode(err, apperrors.CodeTimeout) ||
		apperrors.HasCode(err, apperrors.CodeInternal) ||
		apperrors.HasCode(err, apperrors.CodeUnavailable) {
		return kafka.NewTransientError(op, err)
	}
	return kafka.NewPermanentError(op, err)
}
