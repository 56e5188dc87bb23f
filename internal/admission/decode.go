package admission

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// errTrailingData is returned when a body holds more than one JSON value.
var errTrailingData = errors.New("unexpected data after top-level JSON value")

// DecodeResult is the tagged outcome of decoding a request body.
// Exactly one of Value (when OK) or Err is meaningful.
type DecodeResult struct {
	Value any
	Err   error
}

// OK reports whether the body decoded successfully.
func (r DecodeResult) OK() bool {
	return r.Err == nil
}

// Decode decodes body as exactly one JSON value.
//
// Numbers are kept as json.Number so that integers beyond float64 precision
// reach the handler unchanged. Empty bodies, truncated documents and trailing
// data all fail.
func Decode(body []byte) DecodeResult {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return DecodeResult{Err: errors.Wrap(err, "decode JSON body")}
	}

	// Anything but EOF after the first value means trailing data.
	if _, err := dec.Token(); err != io.EOF {
		return DecodeResult{Err: errTrailingData}
	}

	return DecodeResult{Value: value}
}
