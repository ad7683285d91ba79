package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "studyhall/pkg/errors"
)

var seatNumberRegex = regexp.MustCompile(`^[\p{Lu}0-9][\p{Lu}0-9\-]{0,15}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// New returns a validator that reports fields by their JSON names and knows
// the custom "seat_number" tag.
func New() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("seat_number", func(fl validator.FieldLevel) bool {
		return seatNumberRegex.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register seat_number: %w", err)
	}

	return v, nil
}

// Struct validates s and converts failures into ValidationErrors.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return Translate(validationErrs)
	}
	return err
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, fe := range errs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param() + lengthUnit(fe)
	case "max":
		return "must be at most " + fe.Param() + lengthUnit(fe)
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	case "mongodb":
		return "must be a valid id"
	case "e164":
		return "must be a phone number in E.164 format"
	case "seat_number":
		return "must contain only upper-case letters, digits and dashes"
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}

func lengthUnit(fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return " characters"
	}
	return ""
}

// ToAppError wraps a validator result into the API error shape. Errors that
// are not ValidationErrors are returned as internal errors.
func ToAppError(message string, err error) *apperrors.AppError {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, map[string]any{"fields": []ValidationError(verrs)})
	}
	var single ValidationError
	if errors.As(err, &single) {
		return apperrors.Validation(message, map[string]any{"fields": []ValidationError{single}})
	}
	return apperrors.Internal(message, err)
}
