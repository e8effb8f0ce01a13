package pk

import (
	"errors"
	"fmt"

	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// Common errors
var (
	// ErrUnmodeledCombination is returned for a route/compound pairing without
	// kinetic parameters. A silent zero would read as "no dose", so callers
	// must surface it.
	ErrUnmodeledCombination = errors.New("no kinetic model for route and compound")

	// ErrInvalidModifier is returned when a modifier indexes outside its table.
	ErrInvalidModifier = errors.New("invalid route modifier")

	// ErrInvalidWeight is returned for a body weight the model cannot scale by.
	ErrInvalidWeight = domain.ErrInvalidWeight

	// ErrGridTooLarge is returned when the dose history spans more grid points
	// than the configured limit.
	ErrGridTooLarge = errors.New("simulation grid too large")
)

// ModelError reports the pairing that has no kinetic model.
type ModelError struct {
	Route domain.Route
	Ester domain.Ester
}

// Error implements the error interface for ModelError.
func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: route %q with compound %q", ErrUnmodeledCombination, e.Route, e.Ester)
}

// Unwrap returns ErrUnmodeledCombination to support errors.Is.
func (e *ModelError) Unwrap() error {
	return ErrUnmodeledCombination
}
