package admission

import (
	"bytes"
	"io"
	"net/http"

	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Core performs the content-type check and body decode shared by every strategy.
//
// It holds no per-request state and is safe for concurrent use.
type Core struct {
	observer Observer
}

// NewCore creates a Core reporting outcomes to observer. A nil observer is replaced by NopObserver.
func NewCore(observer Observer) *Core {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Core{observer: observer}
}

// Admit runs the admission check for the handler identified by id.
//
// Outcomes:
//   - Forwarded: next runs with the decoded payload and its error is returned unchanged.
//   - Rejected: the 400 rejection is written and next never runs.
//
// A failure while reading the body is not a rejection. It is returned as-is so
// the transport error (e.g. 413 from the body limit) reaches the error handler.
func (core *Core) Admit(c echo.Context, id HandlerID, next HandlerFunc) error {
	req := c.Request()

	// Exact match only: parameters such as "; charset=utf-8" are rejected too.
	if req.Header.Get(echo.HeaderContentType) != echo.MIMEApplicationJSON {
		return core.reject(c, id, errs.ReasonContentType)
	}

	body, err := readBody(req)
	if err != nil {
		return err
	}

	result := Decode(body)
	if !result.OK() {
		return core.reject(c, id, errs.ReasonMalformedBody)
	}

	core.observer.Forwarded(c, id)

	return next(c, &Payload{Value: result.Value, Raw: body})
}

func (core *Core) reject(c echo.Context, id HandlerID, reason errs.InvalidJSONReason) error {
	rejection := errs.NewInvalidJSONRequestError(reason)

	core.observer.Rejected(c, id, reason)

	return c.JSON(rejection.Status, rejection.Response())
}

// readBody reads the whole body and puts an identical reader back on the
// request, so the handler still sees the request as it arrived.
func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	_ = req.Body.Close()

	req.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
