package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("toolname", validToolName)
	return v
}

func validToolName(fl validator.FieldLevel) bool {
	_, ok := domain.ParseToolName(fl.Field().String())
	return ok
}

// Validate checks cfg and reports every violation in one INVALID_ARGUMENT error.
func Validate(cfg domain.Config) error {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Wrap(domain.CodeInvalidArgument, "config.Validate", err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	return domain.E(domain.CodeInvalidArgument, "config.Validate", strings.Join(messages, "; "), nil)
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return field + " is required"
	case "gte", "lte", "gt":
		return fmt.Sprintf("%s must be %s %s (got %v)", field, bounds[fe.Tag()], fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", field, fe.Param(), fe.Value())
	case "toolname":
		return fmt.Sprintf("%s: unknown tool %q", field, fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL (got %v)", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

var bounds = map[string]string{"gte": ">=", "lte": "<=", "gt": ">"}
