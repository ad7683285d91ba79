package validator

import (
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build booking validator", "error", err)
	}
	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a complete booking. An empty or inverted time range is
// rejected here so it never reaches storage.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := validation.Struct(v.validate, booking); err != nil {
		return err
	}
	if !booking.StartTime.Before(booking.EndTime) {
		return validation.ValidationErrors{{
			Field:   "end_time",
			Message: "must be after start_time",
		}}
	}
	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	return validation.Struct(v.validate, update)
}
