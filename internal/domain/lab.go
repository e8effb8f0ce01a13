package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// LabUnit is the reporting unit of an estradiol lab draw.
type LabUnit string

const (
	LabUnitPgPerML  LabUnit = "pg/ml"
	LabUnitPmolPerL LabUnit = "pmol/l"
)

// CanonicalLabUnit is used when an imported unit is not recognised.
const CanonicalLabUnit = LabUnitPgPerML

// Valid reports whether u is a supported lab unit.
func (u LabUnit) Valid() bool {
	return u == LabUnitPgPerML || u == LabUnitPmolPerL
}

// LabResult is a measured estradiol concentration used for calibration.
type LabResult struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	TimeH     float64   `json:"timeH"`
	ConcValue float64   `json:"concValue"`
	Unit      LabUnit   `json:"unit"`
	CreatedAt time.Time `json:"-"`
}

// NewLabResult creates a validated lab result for the given user.
func NewLabResult(userID uuid.UUID, timeH, value float64, unit LabUnit) (*LabResult, error) {
	lab := &LabResult{
		ID:        uuid.New(),
		UserID:    userID,
		TimeH:     timeH,
		ConcValue: value,
		Unit:      unit,
		CreatedAt: time.Now().UTC(),
	}
	if err := lab.Validate(); err != nil {
		return nil, err
	}
	return lab, nil
}

// Validate checks that the lab result is usable.
func (l *LabResult) Validate() error {
	if l.ID == uuid.Nil {
		return ErrInvalidID
	}
	if math.IsNaN(l.TimeH) || math.IsInf(l.TimeH, 0) {
		return ErrInvalidTime
	}
	if math.IsNaN(l.ConcValue) || math.IsInf(l.ConcValue, 0) || l.ConcValue < 0 {
		return ErrInvalidConcentration
	}
	if !l.Unit.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLabUnit, l.Unit)
	}
	return nil
}

// UnmarshalJSON rejects unknown units on strict decode paths.
func (l *LabResult) UnmarshalJSON(data []byte) error {
	type alias LabResult
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Unit.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLabUnit, raw.Unit)
	}
	*l = LabResult(raw)
	return nil
}
