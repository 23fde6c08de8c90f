package httpapi

import (
	"encoding/json"
	"net/http"

	"voiced/internal/manager"
	"voiced/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Detail: msg})
}

// writeServiceError maps well-known manager errors to HTTP status codes.
// Unknown errors become 500 with the error's short message; wrapped causes
// stay out of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case manager.IsVoiceNotFound(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case manager.IsVoiceConflict(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	case manager.IsModelNotReady(err):
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
