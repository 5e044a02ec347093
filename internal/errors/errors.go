package errors

import (
	"encoding/json"
	"net/http"
)

type jsonError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSONError writes a JSON error body with the given status.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := jsonError{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	_ = json.NewEncoder(w).Encode(body)
}

// WriteServerError writes the uniform pipeline failure response. Internal
// detail never reaches the caller; it belongs in the log.
func WriteServerError(w http.ResponseWriter) {
	WriteJSONError(w, http.StatusInternalServerError, "")
}
