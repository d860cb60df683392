package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	//nolint:errcheck
	validate.RegisterValidation("loanstatus", validateLoanStatus)
}

func validateLoanStatus(fl validator.FieldLevel) bool {
	return LoanStatus(fl.Field().String()).Valid()
}

// Validate checks the field constraints of an entity. Failures wrap
// ErrValidation and list every offending field.
func Validate(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.StructNamespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "loanstatus":
		return fmt.Sprintf("%s must be one of m, o, a, r", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
