package errs

import "net/http"

// InvalidJSONRequestMessage is the only message clients ever see when a
// request fails JSON admission. Decode details are never exposed.
const InvalidJSONRequestMessage = "invalid request"

// InvalidJSONReason records why a request failed JSON admission.
// It is used for logs and telemetry only; clients get the same body for every reason.
type InvalidJSONReason string

const (
	// ReasonContentType means the Content-Type header was not exactly application/json.
	ReasonContentType InvalidJSONReason = "content_type"

	// ReasonMalformedBody means the body could not be decoded as a single JSON value.
	ReasonMalformedBody InvalidJSONReason = "malformed_body"
)

// RejectionResponse is the wire body of an admission rejection.
//
//	{ "msg": "invalid request" }
type RejectionResponse struct {
	Msg string `json:"msg"`
}

// InvalidJSONRequestError is the single error kind produced by JSON admission.
//
// It covers both a wrong content type and an undecodable body. The admission
// core writes Response() with Status itself. When a handler or middleware
// returns one instead, the global error handler renders the same body.
type InvalidJSONRequestError struct {
	Reason InvalidJSONReason
	Status int
}

// NewInvalidJSONRequestError creates a 400 InvalidJSONRequestError for the given reason.
func NewInvalidJSONRequestError(reason InvalidJSONReason) *InvalidJSONRequestError {
	return &InvalidJSONRequestError{
		Reason: reason,
		Status: http.StatusBadRequest,
	}
}

func (e *InvalidJSONRequestError) Error() string {
	return InvalidJSONRequestMessage + ": " + string(e.Reason)
}

// Is matches any *InvalidJSONRequestError regardless of reason.
func (e *InvalidJSONRequestError) Is(target error) bool {
	_, ok := target.(*InvalidJSONRequestError)
	return ok
}

// Response returns the body written to the client.
func (e *InvalidJSONRequestError) Response() RejectionResponse {
	return RejectionResponse{Msg: InvalidJSONRequestMessage}
}
