package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 expiry of the access token.
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse carries a rotated token pair.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// DoseRequest is the wire shape of a dose event write. Route modifiers
// travel in Extras, keyed as in exports.
type DoseRequest struct {
	Route  string             `json:"route"  validate:"required"`
	Ester  string             `json:"ester"  validate:"required"`
	TimeH  *float64           `json:"timeH"  validate:"required"`
	DoseMG float64            `json:"doseMG" validate:"gte=0"`
	Extras map[string]float64 `json:"extras,omitempty"`
}

// LabRequest is the wire shape of a lab result write. Unit defaults to pg/ml.
type LabRequest struct {
	TimeH     *float64 `json:"timeH"     validate:"required"`
	ConcValue *float64 `json:"concValue" validate:"required,gte=0"`
	Unit      string   `json:"unit"      validate:"omitempty,oneof=pg/ml pmol/l"`
}

// ProfileRequest updates the body weight.
type ProfileRequest struct {
	WeightKG float64 `json:"weightKG" validate:"required,gt=0,lte=500"`
}

// BioavailabilityRequest asks for the absorbed fraction of one pairing.
type BioavailabilityRequest struct {
	Route  string             `json:"route"  validate:"required"`
	Ester  string             `json:"ester"  validate:"required"`
	Extras map[string]float64 `json:"extras,omitempty"`
}

// BioavailabilityResponse reports the absorbed fraction and the factor
// converting the administered mass to estradiol-equivalent mass.
type BioavailabilityResponse struct {
	Route    domain.Route `json:"route"`
	Ester    domain.Ester `json:"ester"`
	Fraction float64      `json:"fraction"`
	E2Factor float64      `json:"e2Factor"`
}

// FactorResponse reports the potency conversion of a compound variant.
type FactorResponse struct {
	Ester     domain.Ester `json:"ester"`
	Factor    float64      `json:"factor"`
	MolarMass *float64     `json:"molarMass"`
}

// ConversionResponse reports a lab value in both supported units.
type ConversionResponse struct {
	PgPerML  float64 `json:"pgPerML"`
	PmolPerL float64 `json:"pmolPerL"`
}

// SublingualTierResponse describes one preset hold tier.
type SublingualTierResponse struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	HoldMinutes float64 `json:"holdMinutes"`
	Theta       float64 `json:"theta"`
}

// SublingualResponse maps between hold time and absorbed fraction.
type SublingualResponse struct {
	HoldMinutes float64                  `json:"holdMinutes"`
	Theta       float64                  `json:"theta"`
	Tiers       []SublingualTierResponse `json:"tiers"`
}

// ExportRequest optionally encrypts the export.
type ExportRequest struct {
	Passphrase string `json:"passphrase,omitempty"`
}

// ImportRequest carries an import file verbatim. Data may be a payload
// object, a bare event array or an encrypted envelope.
type ImportRequest struct {
	Data       json.RawMessage `json:"data"       validate:"required"`
	Passphrase string          `json:"passphrase,omitempty"`
}

// ImportResponse reports what an import kept.
type ImportResponse struct {
	transfer.ImportResult
	WeightKG *float64 `json:"weightKG,omitempty"`
}

// BackupSummary lists a backup without its envelope.
type BackupSummary struct {
	ID        uuid.UUID `json:"id"`
	SizeBytes int       `json:"sizeBytes"`
	CreatedAt string    `json:"createdAt"`
}
