package validator

import (
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type OperationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewOperationValidator(log *logger.Logger) *OperationValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build operation record validator", "error", err)
	}
	return &OperationValidator{
		validate: v,
		logger:   log,
	}
}

func (v *OperationValidator) Validate(record *model.OperationRecord) error {
	return validation.Struct(v.validate, record)
}

func (v *OperationValidator) ValidateUpdate(update *model.OperationRecordUpdate) error {
	return validation.Struct(v.validate, update)
}
