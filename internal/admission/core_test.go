package admission

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreRejectsWrongContentType(t *testing.T) {
	t.Parallel()

	contentTypes := []string{
		"",
		"text/plain",
		"application/json; charset=utf-8",
		"Application/JSON",
		"application/x-www-form-urlencoded",
		"application/problem+json",
	}

	for _, ct := range contentTypes {
		t.Run(ct, func(t *testing.T) {
			t.Parallel()
			obs := &recordingObserver{}
			core := NewCore(obs)
			c, rec := newContext(ct, `{"a":1}`)

			called := false
			err := core.Admit(c, "items.create", func(echo.Context, *Payload) error {
				called = true
				return nil
			})

			require.NoError(t, err)
			assert.False(t, called)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
			assert.JSONEq(t, rejectionBody, rec.Body.String())
			assert.Equal(t, []errs.InvalidJSONReason{errs.ReasonContentType}, obs.rejected)
			assert.Empty(t, obs.forwarded)
		})
	}
}

func TestCoreRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"not-json", `{"a":`, "", `{"a":1}garbage`} {
		obs := &recordingObserver{}
		core := NewCore(obs)
		c, rec := newContext(echo.MIMEApplicationJSON, body)

		called := false
		err := core.Admit(c, "items.create", func(echo.Context, *Payload) error {
			called = true
			return nil
		})

		require.NoError(t, err)
		assert.False(t, called, "body %q", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, rejectionBody, rec.Body.String())
		assert.Equal(t, []errs.InvalidJSONReason{errs.ReasonMalformedBody}, obs.rejected)
	}
}

func TestCoreForwardsDecodedPayload(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	core := NewCore(obs)
	c, rec := newContext(echo.MIMEApplicationJSON, `{"a":1}`)

	var got *Payload
	err := core.Admit(c, "items.create", func(c echo.Context, payload *Payload) error {
		got = payload
		return c.JSON(http.StatusOK, map[string]string{"msg": "success!"})
	})

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, got.Value)
	assert.Equal(t, []byte(`{"a":1}`), got.Raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"success!"}`, rec.Body.String())
	assert.Equal(t, []HandlerID{"items.create"}, obs.forwarded)
	assert.Empty(t, obs.rejected)
}

func TestCoreForwardsNullAsPayload(t *testing.T) {
	t.Parallel()
	core := NewCore(nil)
	c, _ := newContext(echo.MIMEApplicationJSON, `null`)

	var got *Payload
	err := core.Admit(c, "items.create", func(_ echo.Context, payload *Payload) error {
		got = payload
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, got, "a JSON null is still an admitted payload")
	assert.Nil(t, got.Value)
}

func TestCorePassesHandlerErrorThrough(t *testing.T) {
	t.Parallel()
	core := NewCore(nil)
	c, _ := newContext(echo.MIMEApplicationJSON, `[]`)
	handlerErr := errors.New("boom")

	err := core.Admit(c, "items.create", func(echo.Context, *Payload) error {
		return handlerErr
	})

	assert.Same(t, handlerErr, err)
}

func TestCoreRestoresBodyForHandler(t *testing.T) {
	t.Parallel()
	core := NewCore(nil)
	c, _ := newContext(echo.MIMEApplicationJSON, `{"keep":"me"}`)

	var raw []byte
	err := core.Admit(c, "items.create", func(c echo.Context, _ *Payload) error {
		var readErr error
		raw, readErr = io.ReadAll(c.Request().Body)
		return readErr
	})

	require.NoError(t, err)
	assert.Equal(t, `{"keep":"me"}`, string(raw))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestCoreReturnsReadErrorsInsteadOfRejecting(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	core := NewCore(obs)

	e := echo.New()
	req := newRequest(echo.MIMEApplicationJSON, failingReader{})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := core.Admit(c, "items.create", func(echo.Context, *Payload) error {
		t.Fatal("handler must not run")
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Empty(t, obs.rejected)
	assert.Empty(t, rec.Body.String())
}
