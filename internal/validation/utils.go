package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required,max=280"`)
//   - Implement Validate() error that runs Validate(req)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field
// that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// ShapeMismatchMessage is returned when an admitted payload does not decode
// into the request struct (wrong types, unknown fields, wrong top-level kind).
const ShapeMismatchMessage = "Request body does not match the expected shape"

// validate is shared; *validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// Validate runs the struct tag rules on v.
func Validate(v any) error {
	return validate.Struct(v)
}

// BindPayload decodes an admitted payload into target and validates it.
//
// The payload must already have passed JSON admission, so a nil payload is a
// programming error (the route was registered without admission) and is
// reported as such. Type mismatches and unknown fields become 400s with a
// fixed message; rule violations become 400s with field errors.
func BindPayload(payload *admission.Payload, target Validatable) error {
	if payload == nil {
		return errors.New("bind payload: route does not require JSON admission")
	}

	dec := json.NewDecoder(bytes.NewReader(payload.Raw))
	dec.DisallowUnknownFields()

	if err := dec.Decode(target); err != nil {
		// Decoder details name Go types; the client only gets a fixed message.
		return errs.ValidationError(err).WithMessage(ShapeMismatchMessage)
	}

	if msg, fieldErrors := validateStruct(target); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors)
	}

	return nil
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	switch typed := err.(type) {
	case validator.ValidationErrors:
		for _, fe := range typed {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: strings.ToLower(fe.Field()),
				Error: messageFor(fe),
			})
		}

	case CustomValidationErrors:
		for _, ce := range typed {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}

	default:
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "", Error: err.Error()})
	}

	return "Validation failed", fieldErrors
}

// messageFor converts a validator field error into a user-friendly message.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"

	case "min":
		// strings: minimum length, numbers: minimum value
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	case "email":
		return "must be a valid email address"

	case "uuid":
		return "must be a valid UUID"

	case "dive":
		return "some items are invalid"

	default:
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", field, fe.Tag())
	}
}
