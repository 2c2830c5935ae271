package handlers

import (
	"errors"
	"net/http"

	"github.com/bookwormhq/bookworm-api/internal/application"
	"github.com/bookwormhq/bookworm-api/internal/upload"
)

// statusFor maps service-level errors onto HTTP statuses. Anything outside
// the taxonomy is an internal error; its message is kept for diagnostics.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrValidation),
		errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrConflict),
		errors.Is(err, upload.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, upload.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
