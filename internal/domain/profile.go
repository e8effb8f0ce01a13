package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxWeightKG bounds accepted body weights.
const MaxWeightKG = 500.0

// Profile holds the per-user simulation inputs that are not dose events.
type Profile struct {
	UserID    uuid.UUID `json:"-"`
	WeightKG  float64   `json:"weightKG"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the profile's body weight.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrInvalidID
	}
	return ValidateWeight(p.WeightKG)
}

// ValidateWeight checks a body weight in kilograms.
func ValidateWeight(kg float64) error {
	if math.IsNaN(kg) || !(kg > 0) || kg > MaxWeightKG {
		return ErrInvalidWeight
	}
	return nil
}
