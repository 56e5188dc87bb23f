package admission

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/deppfellow/jsongate/internal/errs"
	"github.com/labstack/echo/v4"
)

// recordingObserver collects admission outcomes for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	forwarded []HandlerID
	rejected  []errs.InvalidJSONReason
}

func (o *recordingObserver) Forwarded(_ echo.Context, id HandlerID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.forwarded = append(o.forwarded, id)
}

func (o *recordingObserver) Rejected(_ echo.Context, _ HandlerID, reason errs.InvalidJSONReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, reason)
}

func newRequest(contentType string, body io.Reader) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/items", body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	return req
}

func newContext(contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(newRequest(contentType, strings.NewReader(body)), rec), rec
}

const rejectionBody = `{"msg":"invalid request"}`
