package validator

import (
	"errors"
	"testing"

	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/validation"
)

func TestSeatValidator_Validate(t *testing.T) {
	v := NewSeatValidator(logger.Discard())

	tests := []struct {
		name      string
		seat      model.Seat
		wantField string
	}{
		{
			name: "valid",
			seat: model.Seat{SeatNumber: "A1", Type: model.SeatRegular, Price: 10, Status: model.SeatAvailable},
		},
		{
			name:      "missing seat number",
			seat:      model.Seat{Type: model.SeatRegular, Status: model.SeatAvailable},
			wantField: "seat_number",
		},
		{
			name:      "unknown type",
			seat:      model.Seat{SeatNumber: "A1", Type: "vip", Status: model.SeatAvailable},
			wantField: "type",
		},
		{
			name:      "negative price",
			seat:      model.Seat{SeatNumber: "A1", Type: model.SeatRegular, Price: -5, Status: model.SeatAvailable},
			wantField: "price",
		},
		{
			name:      "created occupied",
			seat:      model.Seat{SeatNumber: "A1", Type: model.SeatRegular, Status: model.SeatOccupied},
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.seat)
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

func TestSeatValidator_ValidateStatus(t *testing.T) {
	v := NewSeatValidator(logger.Discard())
	if err := v.ValidateStatus(&model.SeatStatusUpdate{Status: model.SeatMaintenance}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateStatus(&model.SeatStatusUpdate{Status: "broken"}); err == nil {
		t.Error("expected error for unknown status")
	}
}
