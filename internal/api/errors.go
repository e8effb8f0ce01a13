package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/render"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/hrtrack/hrtrack-api/internal/service/auth"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
)

// ErrUnauthenticated is reported when a protected handler runs without a
// user in the request context.
var ErrUnauthenticated = errors.New("user not authenticated")

// ErrInvalidParameter is reported for malformed path or query parameters.
var ErrInvalidParameter = errors.New("invalid parameter")

// validationErrors map to 400 Bad Request.
var validationErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrInvalidRoute,
	domain.ErrInvalidEster,
	domain.ErrInvalidTime,
	domain.ErrInvalidDose,
	domain.ErrModifierRoute,
	domain.ErrConflictingExtras,
	domain.ErrInvalidLabUnit,
	domain.ErrInvalidConcentration,
	domain.ErrInvalidWeight,
	domain.ErrEmptyEnvelope,
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyPassword,
	store.ErrInvalidEntity,
	pk.ErrInvalidModifier,
	transfer.ErrMalformedPayload,
	transfer.ErrPassphraseRequired,
	transfer.ErrEmptyPassphrase,
	service.ErrNotEncrypted,
	service.ErrInvalidHour,
	shared.ErrEmptyBody,
	ErrInvalidParameter,
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their text.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// The request was well formed but cannot be processed as given.
	case errors.Is(err, transfer.ErrDecrypt),
		errors.Is(err, pk.ErrUnmodeledCombination),
		errors.Is(err, pk.ErrGridTooLarge),
		errors.Is(err, render.ErrNotEnoughData):
		return http.StatusUnprocessableEntity
	}

	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a client-facing message for err. Domain
// validation messages contain no user data and are passed through.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Authentication required"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrDoseNotFound):
		return "Dose event not found"
	case errors.Is(err, store.ErrLabNotFound):
		return "Lab result not found"
	case errors.Is(err, store.ErrBackupNotFound):
		return "Backup not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, transfer.ErrDecrypt):
		return "Unable to decrypt data; check the passphrase"
	case errors.Is(err, transfer.ErrPassphraseRequired):
		return "A passphrase is required for encrypted data"
	case errors.Is(err, transfer.ErrEmptyPassphrase):
		return "Passphrase cannot be empty"
	case errors.Is(err, transfer.ErrMalformedPayload):
		return "Unrecognised import format"
	case errors.Is(err, service.ErrNotEncrypted):
		return "Backups must be encrypted envelopes"

	case errors.Is(err, pk.ErrUnmodeledCombination):
		var me *pk.ModelError
		if errors.As(err, &me) {
			return fmt.Sprintf("No kinetic model for %s %s", me.Ester, me.Route)
		}
		return "No kinetic model for this route and compound"
	case errors.Is(err, pk.ErrGridTooLarge):
		return "Dose history spans too long a period to simulate"
	case errors.Is(err, pk.ErrInvalidModifier):
		return "Invalid route modifier"
	case errors.Is(err, render.ErrNotEnoughData):
		return "Not enough data to draw a chart"
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return SanitizeValidationError(err)
	}

	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return "Invalid request: " + target.Error()
		}
	}

	return "An unexpected error occurred"
}

// SanitizeValidationError turns validator output into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Validation error"
	}
	fe := ve[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. An empty message selects
// GetSafeErrorMessage.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" || status < http.StatusInternalServerError {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// requestLogger returns the request-scoped logger, falling back to base.
func requestLogger(r *http.Request, base *slog.Logger) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), base)
}
