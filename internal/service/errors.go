package service

import (
	"errors"
	"fmt"
)

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNotEncrypted is returned when a backup upload is not an encrypted envelope.
	ErrNotEncrypted = errors.New("backup must be an encrypted envelope")

	// ErrInvalidHour is returned for a point query outside finite hours.
	ErrInvalidHour = errors.New("hour must be a finite number")
)

// ServiceError wraps errors from the service layer with the failed operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_dose", "import")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is and errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
