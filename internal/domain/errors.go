package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRoute is returned for a route outside the supported set.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidEster is returned for a compound variant outside the supported set.
	ErrInvalidEster = errors.New("invalid ester")

	// ErrInvalidTime is returned when timeH is not a finite number.
	ErrInvalidTime = errors.New("time must be a finite number of hours")

	// ErrInvalidDose is returned for a negative or non-finite dose.
	ErrInvalidDose = errors.New("dose must be a finite, non-negative mass")

	// ErrModifierRoute is returned when a route modifier does not belong to the event's route.
	ErrModifierRoute = errors.New("route modifier not allowed for route")

	// ErrConflictingExtras is returned when mutually exclusive extras keys are combined.
	ErrConflictingExtras = errors.New("conflicting route extras")

	// ErrInvalidLabUnit is returned for a lab unit outside the supported set.
	ErrInvalidLabUnit = errors.New("invalid lab unit")

	// ErrInvalidConcentration is returned for a negative or non-finite lab value.
	ErrInvalidConcentration = errors.New("concentration must be a finite, non-negative value")

	// ErrInvalidWeight is returned for a body weight outside (0, MaxWeightKG].
	ErrInvalidWeight = errors.New("invalid body weight")

	// ErrEmptyEnvelope is returned when a backup has no payload.
	ErrEmptyEnvelope = errors.New("backup envelope cannot be empty")
)
