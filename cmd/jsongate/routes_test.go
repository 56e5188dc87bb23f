package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRoutes = []admission.Route{
	{Method: http.MethodGet, Path: "/status", ID: "system.status"},
	{Method: http.MethodPost, Path: "/api/v1/submit", ID: "v1.submit", RequiresJSON: true},
}

func TestPrintRoutesTable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, "guard", sampleRoutes, false))

	text := out.String()
	assert.Contains(t, text, "strategy: guard")
	assert.Regexp(t, `GET\s+/status\s+system.status\s+-`, text)
	assert.Regexp(t, `POST\s+/api/v1/submit\s+v1.submit\s+required`, text)
}

func TestPrintRoutesJSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, "gateway", sampleRoutes, true))

	var got struct {
		Strategy string            `json:"strategy"`
		Routes   []admission.Route `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "gateway", got.Strategy)
	assert.Equal(t, sampleRoutes, got.Routes)
}

func TestRoutesCommand(t *testing.T) {
	t.Setenv("JSONGATE_PRIMARY__ENV", "test")
	t.Setenv("JSONGATE_SERVER__PORT", "8080")
	t.Setenv("JSONGATE_SERVER__READ_TIMEOUT", "5")
	t.Setenv("JSONGATE_SERVER__WRITE_TIMEOUT", "5")
	t.Setenv("JSONGATE_SERVER__IDLE_TIMEOUT", "5")
	t.Setenv("JSONGATE_SERVER__CORS_ALLOWED_ORIGINS", "*")
	t.Setenv("JSONGATE_ADMISSION__STRATEGY", "gateway")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"routes", "--strategy", "guard", "--json"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var got struct {
		Strategy string            `json:"strategy"`
		Routes   []admission.Route `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "guard", got.Strategy)
	assert.Len(t, got.Routes, 7)
}
