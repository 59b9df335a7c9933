package utils

import (
	"encoding/json"
	"net/http"

	"BOOKWORM_BACK-END/internal/apperror"
	"BOOKWORM_BACK-END/internal/dto"
	"BOOKWORM_BACK-END/internal/logging"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes {"error": <status text>, "message": message}
func WriteErrorResponse(w http.ResponseWriter, status int, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// WriteAppError translates a service error into a response. Internal errors are logged.
func WriteAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	appErr := apperror.From(err)
	status := appErr.Kind.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	WriteErrorResponse(w, status, appErr.Message)
}
