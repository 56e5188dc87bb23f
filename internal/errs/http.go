package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "text", "error": "is required" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "text").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface and is serialized directly to JSON by
// the global error handler.
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets the error handler decide whether the message may be shown as-is.
//   - Errors: list of per-field errors (validation).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors, typically for typed payloads.
	Errors []FieldError `json:"errors"`
}

// Error returns the Message, so printing/logging the error shows the message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also a *HTTPError.
//
// It does NOT compare Code/Status; it only checks the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
