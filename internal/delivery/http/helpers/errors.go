package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"memberadmission/internal/domain"
)

// errorMapping pairs a domain sentinel with the status and code it is reported as.
type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters only where one error wraps several sentinels; the first match wins.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrInvalidToken, http.StatusBadRequest, ErrCodeBadRequest},
	{domain.ErrHandleAlreadySet, http.StatusConflict, ErrCodeConflict},
	{domain.ErrHandleTaken, http.StatusConflict, ErrCodeConflict},
	{domain.ErrCapacityExceeded, http.StatusConflict, ErrCodeConflict},
	{domain.ErrInvalidTransition, http.StatusConflict, ErrCodeConflict},
	{domain.ErrPaymentRequired, http.StatusPaymentRequired, ErrCodePaymentRequired},
	{domain.ErrCheckInDisabled, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrTokenUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
}

// StatusForError returns the HTTP status and error code for err.
// Errors that match no domain sentinel are internal errors.
func StatusForError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteServiceError writes err as a JSON error envelope. Internal errors are
// logged with the request path and method; domain errors are not.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusForError(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	WriteJSONError(w, status, code, err.Error())
}
