package model

import "time"

const (
	SeatAvailable   = "available"
	SeatOccupied    = "occupied"
	SeatMaintenance = "maintenance"

	SeatRegular = "regular"
	SeatPremium = "premium"
	SeatGroup   = "group"
)

// Seat is a bookable place. While occupied, StudentID, BookingID and the
// booking window mirror the seat's earliest active booking; otherwise they
// are empty.
type Seat struct {
	ID           string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SeatNumber   string     `json:"seat_number" bson:"seat_number" validate:"required,min=1,max=16,seat_number"`
	Type         string     `json:"type" bson:"type" validate:"required,oneof=regular premium group"`
	Price        float64    `json:"price" bson:"price" validate:"gte=0"`
	Status       string     `json:"status" bson:"status" validate:"required,oneof=available occupied maintenance"`
	StudentID    string     `json:"student_id,omitempty" bson:"student_id,omitempty"`
	BookingID    string     `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	BookingStart *time.Time `json:"booking_start,omitempty" bson:"booking_start,omitempty"`
	BookingEnd   *time.Time `json:"booking_end,omitempty" bson:"booking_end,omitempty"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=200"`
	Version      int64      `json:"version" bson:"version"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

type SeatUpdate struct {
	SeatNumber  string   `json:"seat_number,omitempty" validate:"omitempty,min=1,max=16,seat_number"`
	Type        string   `json:"type,omitempty" validate:"omitempty,oneof=regular premium group"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=200"`
}

type SeatStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance"`
}

type SeatFilter struct {
	Status string
	Type   string
}

type SeatTypeInfo struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var SeatTypes = []SeatTypeInfo{
	{Type: SeatRegular, Label: "Regular", Description: "Single desk in the shared hall"},
	{Type: SeatPremium, Label: "Premium", Description: "Single desk in the quiet zone with a locker"},
	{Type: SeatGroup, Label: "Group", Description: "Table for group study"},
}

type SeatSummary struct {
	TotalSeats                int64            `json:"total_seats"`
	ByStatus                  map[string]int64 `json:"by_status"`
	ByType                    map[string]int64 `json:"by_type"`
	TotalRevenuePotential     float64          `json:"total_revenue_potential"`
	AvailableRevenuePotential float64          `json:"available_revenue_potential"`
}

type SeatAvailability struct {
	SeatID     string     `json:"seat_id"`
	SeatNumber string     `json:"seat_number"`
	Status     string     `json:"status"`
	Available  bool       `json:"available"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Conflicts  []*Booking `json:"conflicts"`
}

// Occupancy is the subset of a seat that follows its bookings.
type Occupancy struct {
	Status       string
	StudentID    string
	BookingID    string
	BookingStart *time.Time
	BookingEnd   *time.Time
}

// OccupancyFor derives a seat's occupancy from its active bookings, which
// must be sorted by start time.
func OccupancyFor(active []*Booking) Occupancy {
	if len(active) == 0 {
		return Occupancy{Status: SeatAvailable}
	}
	current := active[0]
	start, end := current.StartTime, current.EndTime
	return Occupancy{
		Status:       SeatOccupied,
		StudentID:    current.StudentID,
		BookingID:    current.ID,
		BookingStart: &start,
		BookingEnd:   &end,
	}
}
