package validator

import (
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type FinancialValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFinancialValidator(log *logger.Logger) *FinancialValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build financial record validator", "error", err)
	}
	return &FinancialValidator{
		validate: v,
		logger:   log,
	}
}

func (v *FinancialValidator) Validate(record *model.FinancialRecord) error {
	return validation.Struct(v.validate, record)
}

func (v *FinancialValidator) ValidateUpdate(update *model.FinancialRecordUpdate) error {
	return validation.Struct(v.validate, update)
}
