package validator

import (
	"errors"
	"testing"
	"time"

	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/validation"
)

func TestBookingValidator_Validate(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	valid := func() model.Booking {
		return model.Booking{
			SeatID:    "65f000000000000000000001",
			StudentID: "s-1",
			StartTime: start,
			EndTime:   start.Add(8 * time.Hour),
			Status:    model.BookingActive,
		}
	}

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{"valid", func(b *model.Booking) {}, ""},
		{"bad seat id", func(b *model.Booking) { b.SeatID = "seat-1" }, "seat_id"},
		{"missing student", func(b *model.Booking) { b.StudentID = "" }, "student_id"},
		{"end before start", func(b *model.Booking) { b.EndTime = start.Add(-time.Hour) }, "end_time"},
		{"empty range", func(b *model.Booking) { b.EndTime = start }, "end_time"},
		{"bad phone", func(b *model.Booking) { b.StudentPhone = "12345" }, "student_phone"},
		{"unknown status", func(b *model.Booking) { b.Status = "pending" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(&b)
			err := v.Validate(&b)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs validation.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("field = %s, want %s", verrs[0].Field, tt.wantField)
			}
		})
	}
}
