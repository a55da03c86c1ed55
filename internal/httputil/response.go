// Package httputil provides JSON response helpers.
// Every API response uses the same envelope: {"success": bool, "message": "...", ...payload}.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondSuccess sends a success envelope, merging the payload fields in
func RespondSuccess(w http.ResponseWriter, statusCode int, message string, payload map[string]any) {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	RespondJSON(w, body, statusCode)
}

// RespondError sends a failure envelope with the given message and status code
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, ErrorResponse{Success: false, Message: message}, statusCode)
}

// RespondErrorPayload sends a failure envelope with extra fields,
// e.g. the field-level errors list on validation failures.
func RespondErrorPayload(w http.ResponseWriter, statusCode int, message string, payload map[string]any) {
	body := map[string]any{"success": false, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	RespondJSON(w, body, statusCode)
}
