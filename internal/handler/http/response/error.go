package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/auth"
	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingClerk):
		Unauthorized(w, err.Error())

	// Ledger domain errors
	case errors.Is(err, ledger.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, ledger.ErrInvalidShift):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, ledger.ErrEmptyInput):
		BadRequest(w, "No punch data found in input", nil)
	case errors.Is(err, ledger.ErrUnsupportedFile):
		UnsupportedMediaType(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
