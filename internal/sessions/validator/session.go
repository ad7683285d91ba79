package validator

import (
	"studyhall/pkg/logger"
	"studyhall/pkg/model"
	"studyhall/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type SessionValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSessionValidator(log *logger.Logger) *SessionValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build session validator", "error", err)
	}
	return &SessionValidator{
		validate: v,
		logger:   log,
	}
}

func (v *SessionValidator) ValidateIssue(req *model.IssueTokenRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *SessionValidator) ValidateToken(req *model.TokenRequest) error {
	return validation.Struct(v.validate, req)
}
