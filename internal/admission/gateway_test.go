package admission

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	called  bool
	payload *Payload
	body    string
}

func recordInto(s *seen) HandlerFunc {
	return func(c echo.Context, payload *Payload) error {
		s.called = true
		s.payload = payload
		raw, _ := io.ReadAll(c.Request().Body)
		s.body = string(raw)
		return c.JSON(http.StatusOK, map[string]string{"msg": "success!"})
	}
}

func newGatewayServer(t *testing.T, marked, unmarked *seen) (*echo.Echo, *Gateway) {
	t.Helper()

	e := echo.New()
	gateway := NewGateway(NewCore(nil))
	e.Use(gateway.Middleware())

	registry := NewRegistry(e, gateway)
	require.NoError(t, registry.RegisterJSON(http.MethodPost, "/marked", "marked", recordInto(marked)))
	require.NoError(t, registry.Register(http.MethodPost, "/unmarked", "unmarked", recordInto(unmarked)))
	registry.Freeze()

	return e, gateway
}

func serve(e *echo.Echo, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGatewayValidatesMarkedHandlers(t *testing.T) {
	t.Parallel()

	t.Run("valid JSON is forwarded with payload", func(t *testing.T) {
		t.Parallel()
		marked, unmarked := &seen{}, &seen{}
		e, _ := newGatewayServer(t, marked, unmarked)

		rec := serve(e, "/marked", echo.MIMEApplicationJSON, `{"a":1}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"msg":"success!"}`, rec.Body.String())
		require.True(t, marked.called)
		require.NotNil(t, marked.payload)
		assert.Equal(t, map[string]any{"a": json.Number("1")}, marked.payload.Value)
		assert.Equal(t, `{"a":1}`, marked.body)
	})

	t.Run("wrong content type is rejected", func(t *testing.T) {
		t.Parallel()
		marked, unmarked := &seen{}, &seen{}
		e, _ := newGatewayServer(t, marked, unmarked)

		rec := serve(e, "/marked", "text/plain", "hello")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, rejectionBody, rec.Body.String())
		assert.False(t, marked.called)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		t.Parallel()
		marked, unmarked := &seen{}, &seen{}
		e, _ := newGatewayServer(t, marked, unmarked)

		rec := serve(e, "/marked", echo.MIMEApplicationJSON, "not-json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, rejectionBody, rec.Body.String())
		assert.False(t, marked.called)
	})
}

func TestGatewaySkipsUnmarkedHandlers(t *testing.T) {
	t.Parallel()

	cases := []struct{ contentType, body string }{
		{"text/plain", "hello"},
		{echo.MIMEApplicationJSON, "not-json"},
		{echo.MIMEApplicationJSON, `{"a":1}`},
		{"", ""},
	}

	for _, tc := range cases {
		marked, unmarked := &seen{}, &seen{}
		e, _ := newGatewayServer(t, marked, unmarked)

		rec := serve(e, "/unmarked", tc.contentType, tc.body)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, unmarked.called)
		assert.Nil(t, unmarked.payload, "unmarked handlers never get a payload")
		assert.Equal(t, tc.body, unmarked.body)
	}
}

func TestGatewayMarkIsIdempotent(t *testing.T) {
	t.Parallel()

	once := NewGateway(NewCore(nil))
	twice := NewGateway(NewCore(nil))

	require.NoError(t, once.Mark("h"))
	require.NoError(t, twice.Mark("h"))
	require.NoError(t, twice.Mark("h"))

	assert.Equal(t, once.Markers().Len(), twice.Markers().Len())
	assert.Equal(t, once.Markers().RequiresJSON("h"), twice.Markers().RequiresJSON("h"))

	// Same observable behavior over HTTP.
	for _, gateway := range []*Gateway{once, twice} {
		e := echo.New()
		e.Use(gateway.Middleware())
		registry := NewRegistry(e, gateway)
		require.NoError(t, registry.Register(http.MethodPost, "/h", "h", func(c echo.Context, _ *Payload) error {
			return c.NoContent(http.StatusNoContent)
		}))
		registry.Freeze()

		assert.Equal(t, http.StatusBadRequest, serve(e, "/h", "text/plain", "x").Code)
		assert.Equal(t, http.StatusNoContent, serve(e, "/h", echo.MIMEApplicationJSON, "{}").Code)
	}
}

func TestGatewayMarkAfterFreezeFails(t *testing.T) {
	t.Parallel()
	gateway := NewGateway(NewCore(nil))
	gateway.Freeze(nil)

	err := gateway.Mark("late")

	require.ErrorIs(t, err, ErrRegistryFrozen)
	assert.False(t, gateway.Markers().RequiresJSON("late"))
}

func TestGatewayRefusesTrafficBeforeFreeze(t *testing.T) {
	t.Parallel()
	e := echo.New()
	gateway := NewGateway(NewCore(nil))
	e.Use(gateway.Middleware())

	called := false
	require.NoError(t, NewRegistry(e, gateway).Register(http.MethodPost, "/early", "early", func(echo.Context, *Payload) error {
		called = true
		return nil
	}))

	rec := serve(e, "/early", echo.MIMEApplicationJSON, "{}")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
}

func TestGatewayIgnoresUnknownRoutes(t *testing.T) {
	t.Parallel()
	marked, unmarked := &seen{}, &seen{}
	e, _ := newGatewayServer(t, marked, unmarked)

	rec := serve(e, "/nowhere", "text/plain", "x")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkerRegistryDefaultsToFalse(t *testing.T) {
	t.Parallel()
	markers := NewMarkerRegistry()

	assert.False(t, markers.RequiresJSON("never-registered"))
	assert.Zero(t, markers.Len())
	assert.False(t, markers.Frozen())

	markers.Freeze()
	markers.Freeze()
	assert.True(t, markers.Frozen())
}
