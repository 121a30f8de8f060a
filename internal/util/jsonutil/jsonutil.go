// Package jsonutil holds the JSON encoding helpers shared by the HTTP
// handlers.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"io"
)

// MarshalNoEscape encodes v into JSON without HTML-escaping <, >, and &, so
// proxied URLs and user-facing error messages stay readable.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode unmarshals one JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}
