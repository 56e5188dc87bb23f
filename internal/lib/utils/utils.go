// Package utils contains small helper functions used across the project.
//
// These are generic helpers that don't belong to a specific domain.
package utils

import (
	"encoding/json"
	"io"
)

// WriteJSON writes v to w as indented JSON followed by a newline.
//
// Values containing unsupported types (channels, funcs, circular refs)
// return the encoder error and write nothing useful.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
