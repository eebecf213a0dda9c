package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, err := range v {
		messages[i] = err.Error()
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

// Struct validates s and returns a validation AppError listing every failed field.
func (v *requestValidator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := translate(validationErrs)
	return &apperror.AppError{
		Code:    http.StatusBadRequest,
		Kind:    apperror.KindValidation,
		Message: errs.Error(),
		Err:     errs,
	}
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "uuid":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}
