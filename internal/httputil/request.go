package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 10 << 20

// ParseJSON decodes the request body into dest. Bodies over MaxBodyBytes are
// rejected by the reader.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
