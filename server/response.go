package server

import (
	"encoding/json"
	"net/http"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	if err := writeJSON(w, status, map[string]string{"error": message}); err != nil {
		logger.Warnw("Failed to write error response", logger.FieldError, err)
	}
}

// writeErr writes err with the status its sentinel maps to
func writeErr(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}
