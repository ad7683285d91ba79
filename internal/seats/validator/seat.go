package validator

import (
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type SeatValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSeatValidator(log *logger.Logger) *SeatValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build seat validator", "error", err)
	}
	return &SeatValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a seat that is about to be created. A new seat may only
// start out available or under maintenance.
func (v *SeatValidator) Validate(seat *model.Seat) error {
	if err := validation.Struct(v.validate, seat); err != nil {
		return err
	}
	if seat.Status == model.SeatOccupied {
		return validation.ValidationErrors{{
			Field:   "status",
			Message: "a seat becomes occupied only through a booking",
		}}
	}
	return nil
}

func (v *SeatValidator) ValidateUpdate(update *model.SeatUpdate) error {
	return validation.Struct(v.validate, update)
}

func (v *SeatValidator) ValidateStatus(update *model.SeatStatusUpdate) error {
	return validation.Struct(v.validate, update)
}
