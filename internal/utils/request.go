package utils

import (
	"encoding/json"
	"net/http"
)

// MaxJSONBodyBytes bounds request bodies; book covers may arrive inline as base64.
const MaxJSONBodyBytes = 16 << 20

// DecodeJSON decodes the request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)).Decode(v)
}
