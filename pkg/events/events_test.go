package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhall/pkg/kafka"
	"studyhall/pkg/middleware"
	"studyhall/pkg/model"
)

type capturePublisher struct {
	messages []kafka.Message
}

func (c *capturePublisher) Publish(_ context.Context, msg kafka.Message) error {
	c.messages = append(c.messages, msg)
	return nil
}

func TestKafkaPublisher_PublishBooking(t *testing.T) {
	capture := &capturePublisher{}
	pub := NewKafkaPublisher(capture, "studyhall-api")

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	booking := &model.Booking{
		ID:         "65a000000000000000000001",
		SeatID:     "65a0000000000000000000aa",
		SeatNumber: "A1",
		StudentID:  "student-1",
		Status:     model.BookingActive,
		Amount:     12.5,
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
	}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	require.NoError(t, pub.PublishBooking(ctx, NewBookingEvent(BookingCreated, booking)))
	require.Len(t, capture.messages, 1)

	msg := capture.messages[0]
	assert.Equal(t, booking.SeatID, msg.Key)
	assert.Equal(t, BookingCreated, msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.Equal(t, "studyhall-api", msg.Headers[kafka.HeaderSource])
	assert.NotEmpty(t, msg.GetEventID())

	var decoded BookingEvent
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, booking.ID, decoded.BookingID)
	assert.Equal(t, 12.5, decoded.Amount)
	assert.True(t, decoded.StartTime.Equal(start))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishBooking(context.Background(), BookingEvent{Type: BookingDeleted}))
}
