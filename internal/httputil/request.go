package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultBodyLimit bounds ordinary JSON request bodies.
const DefaultBodyLimit = 1 << 20 // 1MB

// PublishBodyLimit bounds publish payloads, which carry base64 images.
const PublishBodyLimit = 50 << 20 // 50MB

// ParseJSON decodes JSON from the request body into dest with the default
// body limit.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	return ParseJSONLimit(w, r, dest, DefaultBodyLimit)
}

// ParseJSONLimit decodes JSON from the request body into dest, limiting the
// body to limit bytes. The limit requires w so oversized requests get a
// proper 413 response.
func ParseJSONLimit(w http.ResponseWriter, r *http.Request, dest interface{}, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
