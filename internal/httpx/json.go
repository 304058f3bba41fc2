// Package httpx holds the HTTP plumbing shared by every handler: JSON
// responses, request logging, metrics, CORS and rate limiting.
package httpx

import (
	"encoding/json"
	"net/http"
)

// JSONOK writes v as a 200 JSON response.
func JSONOK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": msg} with the given status code.
func JSONError(w http.ResponseWriter, msg string, code int) {
	JSON(w, code, map[string]string{"error": msg})
}
