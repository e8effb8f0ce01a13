package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DoseEvent is a single logged administration. TimeH is measured in hours
// since the Unix epoch and DoseMG is the compound mass as entered, not the
// estradiol-equivalent mass.
type DoseEvent struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Route     Route
	Ester     Ester
	TimeH     float64
	DoseMG    float64
	Modifiers RouteModifiers
	CreatedAt time.Time
}

// NewDoseEvent creates a validated dose event for the given user.
func NewDoseEvent(
	userID uuid.UUID,
	route Route,
	ester Ester,
	timeH, doseMG float64,
	modifiers RouteModifiers,
) (*DoseEvent, error) {
	if modifiers == nil {
		modifiers = NoModifiers{}
	}
	event := &DoseEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Route:     route,
		Ester:     ester,
		TimeH:     timeH,
		DoseMG:    doseMG,
		Modifiers: modifiers,
		CreatedAt: time.Now().UTC(),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// Validate checks the event's fields and the legality of its modifiers.
func (e *DoseEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrInvalidID
	}
	if !e.Route.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRoute, e.Route)
	}
	if !e.Ester.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEster, e.Ester)
	}
	if math.IsNaN(e.TimeH) || math.IsInf(e.TimeH, 0) {
		return ErrInvalidTime
	}
	if e.Route != RoutePatchRemove {
		if math.IsNaN(e.DoseMG) || math.IsInf(e.DoseMG, 0) || e.DoseMG < 0 {
			return ErrInvalidDose
		}
	}
	if !AllowedFor(e.Route, e.Modifiers) {
		return fmt.Errorf("%w: %T on %s", ErrModifierRoute, e.Modifiers, e.Route)
	}
	if rate, ok := e.Modifiers.(PatchRate); ok && !(rate.UGPerDay > 0) {
		return fmt.Errorf("%w: release rate must be positive", ErrValidation)
	}
	return nil
}

// Time converts TimeH to wall-clock time.
func (e *DoseEvent) Time() time.Time {
	return HoursToTime(e.TimeH)
}

// doseEventJSON is the stable wire shape shared with import/export.
type doseEventJSON struct {
	ID     uuid.UUID          `json:"id"`
	Route  Route              `json:"route"`
	Ester  Ester              `json:"ester"`
	TimeH  float64            `json:"timeH"`
	DoseMG float64            `json:"doseMG"`
	Extras map[string]float64 `json:"extras,omitempty"`
}

// MarshalJSON encodes the event with its modifiers flattened into extras.
func (e DoseEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(doseEventJSON{
		ID:     e.ID,
		Route:  e.Route,
		Ester:  e.Ester,
		TimeH:  e.TimeH,
		DoseMG: e.DoseMG,
		Extras: ExtrasFromModifiers(e.Modifiers),
	})
}

// UnmarshalJSON decodes the wire shape strictly; lenient decoding of
// untrusted files is the import sanitizer's job.
func (e *DoseEvent) UnmarshalJSON(data []byte) error {
	var raw doseEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Route.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRoute, raw.Route)
	}
	mods, err := ModifiersFromExtras(raw.Route, raw.Extras)
	if err != nil {
		return err
	}

	*e = DoseEvent{
		ID:        raw.ID,
		Route:     raw.Route,
		Ester:     raw.Ester,
		TimeH:     raw.TimeH,
		DoseMG:    raw.DoseMG,
		Modifiers: mods,
	}
	return nil
}

// HoursToTime converts hours since the Unix epoch into a UTC time.
func HoursToTime(h float64) time.Time {
	return time.Unix(0, int64(h*float64(time.Hour))).UTC()
}

// TimeToHours converts a time into hours since the Unix epoch.
func TimeToHours(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Hour)
}
