package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"ishop/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps a service error to the wire. Domain errors carry their own
// status and code; everything else is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		logger.Debug().
			Str("code", domainErr.Code).
			Int("status", domainErr.Status).
			Msg(domainErr.Message)
		writeJSON(w, domainErr.Status, model.ErrorResponse{
			Error:   domainErr.Code,
			Message: domainErr.Message,
		})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "Something went wrong",
	})
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
		Error:   model.ErrCodeInvalidJSON,
		Message: message,
	})
}
