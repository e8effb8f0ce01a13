package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// CurrentVersion is written into every export.
const CurrentVersion = 1

// Payload is the plain export document.
type Payload struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	WeightKG   *float64           `json:"weight,omitempty"`
	Events     []domain.DoseEvent `json:"events"`
	LabResults []domain.LabResult `json:"labResults"`
}

// NewPayload assembles an export. A zero weight is omitted.
func NewPayload(weightKG float64, events []domain.DoseEvent, labs []domain.LabResult) *Payload {
	p := &Payload{
		Version:    CurrentVersion,
		ExportedAt: time.Now().UTC(),
		Events:     events,
		LabResults: labs,
	}
	if weightKG > 0 {
		w := weightKG
		p.WeightKG = &w
	}
	if p.Events == nil {
		p.Events = []domain.DoseEvent{}
	}
	if p.LabResults == nil {
		p.LabResults = []domain.LabResult{}
	}
	return p
}

// Marshal encodes the payload as indented JSON.
func (p *Payload) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

// Export encodes p, wrapping it in an envelope when passphrase is non-empty.
func Export(p *Payload, passphrase string, iterations int) ([]byte, error) {
	data, err := p.Marshal()
	if err != nil {
		return nil, err
	}
	if passphrase == "" {
		return data, nil
	}

	env, err := Encrypt(data, passphrase, iterations)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}
