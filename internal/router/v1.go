package router

import (
	"net/http"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/handler"
)

const v1Prefix = "/api/v1"

// registerV1Routes registers the versioned API.
func registerV1Routes(r *admission.Registry, h *handler.Handlers) error {
	routes := []struct {
		path     string
		id       admission.HandlerID
		fn       admission.HandlerFunc
		jsonOnly bool
	}{
		{"/submit", "v1.submit", h.V1.Submit(), true},
		{"/echo", "v1.echo", h.V1.Echo(), true},
		{"/notes", "v1.notes.create", h.V1.CreateNote(), true},
		{"/ack", "v1.ack", h.V1.Ack(), true},
		{"/raw", "v1.raw", h.V1.Raw(), false},
	}

	for _, route := range routes {
		register := r.Register
		if route.jsonOnly {
			register = r.RegisterJSON
		}
		if err := register(http.MethodPost, v1Prefix+route.path, route.id, route.fn); err != nil {
			return err
		}
	}

	return nil
}
