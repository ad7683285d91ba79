// Package events publishes booking domain events for downstream consumers
// such as the ledger worker.
package events

import (
	"context"
	"time"

	"studyhall/pkg/kafka"
	"studyhall/pkg/middleware"
	"studyhall/pkg/model"
)

const (
	BookingCreated     = "booking.created"
	BookingUpdated     = "booking.updated"
	BookingCancelled   = "booking.cancelled"
	BookingReactivated = "booking.reactivated"
	BookingDeleted     = "booking.deleted"

	SchemaVersion = "1"
)

type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	SeatID     string    `json:"seat_id"`
	SeatNumber string    `json:"seat_number"`
	StudentID  string    `json:"student_id"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		SeatID:     b.SeatID,
		SeatNumber: b.SeatNumber,
		StudentID:  b.StudentID,
		Status:     b.Status,
		Amount:     b.Amount,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	PublishBooking(ctx context.Context, event BookingEvent) error
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher keys events by seat so every event of one seat lands on
// the same partition, in order.
type KafkaPublisher struct {
	producer messagePublisher
	source   string
}

func NewKafkaPublisher(producer messagePublisher, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) PublishBooking(ctx context.Context, event BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.SeatID).
		WithValue(event).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBooking(context.Context, BookingEvent) error { return nil }
