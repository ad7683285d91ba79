package model

import (
	"time"
)

const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SeatID       string    `json:"seat_id" bson:"seat_id" validate:"required,mongodb"`
	SeatNumber   string    `json:"seat_number" bson:"seat_number"`
	StudentID    string    `json:"student_id" bson:"student_id" validate:"required,max=64"`
	StudentName  string    `json:"student_name,omitempty" bson:"student_name,omitempty" validate:"omitempty,max=100"`
	StudentPhone string    `json:"student_phone,omitempty" bson:"student_phone,omitempty" validate:"omitempty,e164"`
	StartTime    time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=active cancelled completed"`
	Amount       float64   `json:"amount" bson:"amount" validate:"gte=0"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type BookingUpdate struct {
	StudentID    string     `json:"student_id,omitempty" validate:"omitempty,max=64"`
	StudentName  *string    `json:"student_name,omitempty" validate:"omitempty,max=100"`
	StudentPhone *string    `json:"student_phone,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Status       string     `json:"status,omitempty" validate:"omitempty,oneof=active cancelled completed"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type BookingFilter struct {
	SeatID    string
	StudentID string
	Status    string
	From      *time.Time
	To        *time.Time
}

type BookingSummary struct {
	From          *time.Time       `json:"from,omitempty"`
	To            *time.Time       `json:"to,omitempty"`
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
	Revenue       float64          `json:"revenue"`
	SeatsBooked   int64            `json:"seats_booked"`
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingActive
}

// Overlaps uses half-open intervals: a booking ending at 17:00 does not
// overlap one starting at 17:00.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
