// Package httpjson writes JSON responses in the API's envelope conventions.
// Errors are always `{"message": "..."}` with the mapped status code.
package httpjson

import (
	"encoding/json"
	"net/http"

	"cardstudio/pkg/logger"
)

type errorBody struct {
	Message string `json:"message"`
}

// Write encodes v as the response body with the given status.
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

// Error writes the `{message}` error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, errorBody{Message: message})
}

// ServerError writes the opaque 500 envelope. The cause is logged, never sent.
func ServerError(w http.ResponseWriter, err error) {
	logger.Sugar.Errorf("Internal error: %v", err)
	Error(w, http.StatusInternalServerError, "Server error")
}
