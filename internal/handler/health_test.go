package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, strategy string) *admission.Registry {
	t.Helper()

	s, err := admission.NewStrategy(strategy, admission.NewCore(admission.NopObserver{}))
	require.NoError(t, err)

	noop := func(echo.Context, *admission.Payload) error { return nil }

	r := admission.NewRegistry(echo.New(), s)
	require.NoError(t, r.Register(http.MethodGet, "/status", "system.status", noop))
	require.NoError(t, r.RegisterJSON(http.MethodPost, "/submit", "v1.submit", noop))
	r.Freeze()

	return r
}

func TestCheckHealth(t *testing.T) {
	t.Parallel()

	for _, strategy := range []string{admission.StrategyGateway, admission.StrategyGuard} {
		t.Run(strategy, func(t *testing.T) {
			h := NewHealthHandler(newTestServer(t, strategy), newRegistry(t, strategy))
			c, rec := newContext(http.MethodGet, "", "")

			require.NoError(t, h.CheckHealth(c, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "healthy", body.Status)
			assert.Equal(t, "test", body.Environment)
			assert.Equal(t, strategy, body.Admission.Strategy)
			assert.Equal(t, 2, body.Admission.Routes)
			assert.Equal(t, 1, body.Admission.JSONRoutes)
			assert.Equal(t, []admission.Route{
				{Method: http.MethodGet, Path: "/status", ID: "system.status"},
				{Method: http.MethodPost, Path: "/submit", ID: "v1.submit", RequiresJSON: true},
			}, body.Admission.Table)
		})
	}
}
