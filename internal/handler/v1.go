package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/jsongate/internal/admission"
	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/deppfellow/jsongate/internal/server"
	"github.com/deppfellow/jsongate/internal/validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// V1Handler serves the /api/v1 endpoints.
type V1Handler struct {
	Handler
}

// NewV1Handler constructs a V1Handler.
func NewV1Handler(s *server.Server) *V1Handler {
	return &V1Handler{Handler: NewHandler(s)}
}

// MessageResponse is a bare {"msg": ...} body.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// EchoResponse returns the admitted value unchanged.
type EchoResponse struct {
	Payload any `json:"payload"`
}

// NoteRequest is the body of POST /api/v1/notes.
type NoteRequest struct {
	Title string   `json:"title" validate:"required,max=120"`
	Body  string   `json:"body" validate:"max=2000"`
	Tags  []string `json:"tags" validate:"max=10,dive,required,max=32"`
}

func (r *NoteRequest) Validate() error {
	return validation.Validate(r)
}

// NoteResponse is the created note.
type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// RawResponse describes a request that bypassed admission.
type RawResponse struct {
	ContentType    string `json:"content_type"`
	Bytes          int    `json:"bytes"`
	PayloadPresent bool   `json:"payload_present"`
}

// Submit acknowledges any admitted payload.
func (h *V1Handler) Submit() admission.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, _ *admission.Payload) (MessageResponse, error) {
		return MessageResponse{Msg: "success!"}, nil
	}, http.StatusOK)
}

// Echo returns the decoded payload.
func (h *V1Handler) Echo() admission.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, payload *admission.Payload) (EchoResponse, error) {
		if payload == nil {
			// Only reachable when the route was registered without admission.
			return EchoResponse{}, errs.NewInternalServerError()
		}
		return EchoResponse{Payload: payload.Value}, nil
	}, http.StatusOK)
}

// CreateNote binds the payload into a NoteRequest and returns the new note.
// Notes are not stored.
func (h *V1Handler) CreateNote() admission.HandlerFunc {
	return HandleTyped(h.Handler, func(c echo.Context, req *NoteRequest) (NoteResponse, error) {
		tags := req.Tags
		if tags == nil {
			tags = []string{}
		}

		return NoteResponse{
			ID:        uuid.New(),
			Title:     strings.TrimSpace(req.Title),
			Body:      req.Body,
			Tags:      tags,
			CreatedAt: time.Now().UTC(),
		}, nil
	}, http.StatusCreated, func() *NoteRequest { return &NoteRequest{} })
}

// Ack accepts any admitted payload and answers 204 with no body.
func (h *V1Handler) Ack() admission.HandlerFunc {
	return HandleNoContent(h.Handler, func(c echo.Context, _ *admission.Payload) error {
		return nil
	}, http.StatusNoContent)
}

// Raw reports what it received without any admission check.
func (h *V1Handler) Raw() admission.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, payload *admission.Payload) (RawResponse, error) {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return RawResponse{}, errors.Wrap(err, "read body")
		}

		return RawResponse{
			ContentType:    c.Request().Header.Get(echo.HeaderContentType),
			Bytes:          len(body),
			PayloadPresent: payload != nil,
		}, nil
	}, http.StatusOK)
}
