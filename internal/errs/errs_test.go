package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
}

func TestNewBadRequestError(t *testing.T) {
	t.Parallel()

	t.Run("defaults code from status text", func(t *testing.T) {
		t.Parallel()
		err := NewBadRequestError("nope", false, nil, nil)

		assert.Equal(t, "BAD_REQUEST", err.Code)
		assert.Equal(t, http.StatusBadRequest, err.Status)
		assert.Equal(t, "nope", err.Error())
	})

	t.Run("uses custom code and field errors", func(t *testing.T) {
		t.Parallel()
		code := "NOTE_INVALID"
		fields := []FieldError{{Field: "text", Error: "is required"}}
		err := NewBadRequestError("Validation failed", true, &code, fields)

		assert.Equal(t, code, err.Code)
		assert.True(t, err.Override)
		assert.Equal(t, fields, err.Errors)
	})
}

func TestHTTPErrorIs(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("missing", false, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(wrapped, &InvalidJSONRequestError{}))

	var httpErr *HTTPError
	assert.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestWithMessage(t *testing.T) {
	t.Parallel()

	base := NewInternalServerError()
	copied := base.WithMessage("custom")

	assert.Equal(t, "custom", copied.Message)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), base.Message)
	assert.Equal(t, base.Code, copied.Code)
}

func TestInvalidJSONRequestError(t *testing.T) {
	t.Parallel()

	for _, reason := range []InvalidJSONReason{ReasonContentType, ReasonMalformedBody} {
		err := NewInvalidJSONRequestError(reason)

		assert.Equal(t, http.StatusBadRequest, err.Status)
		assert.Equal(t, RejectionResponse{Msg: "invalid request"}, err.Response())
		assert.Contains(t, err.Error(), string(reason))
		assert.True(t, errors.Is(fmt.Errorf("wrap: %w", err), &InvalidJSONRequestError{}))
	}
}
