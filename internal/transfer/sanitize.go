package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
)

// ImportResult is a sanitized payload plus bookkeeping about what was dropped.
type ImportResult struct {
	Payload        Payload `json:"-"`
	Encrypted      bool    `json:"encrypted"`
	AcceptedEvents int     `json:"acceptedEvents"`
	RejectedEvents int     `json:"rejectedEvents"`
	AcceptedLabs   int     `json:"acceptedLabs"`
	RejectedLabs   int     `json:"rejectedLabs"`
}

// Sanitizer turns untrusted import files into valid domain records. It never
// fails on individual records; unusable ones are counted and dropped.
type Sanitizer struct {
	params     *pk.Params
	gelSites   int
	tiers      int
	iterations int
}

// NewSanitizer creates a sanitizer that validates modifiers and route and
// compound pairings against params.
func NewSanitizer(params *pk.Params, iterations int) *Sanitizer {
	return &Sanitizer{
		params:     params,
		gelSites:   len(params.GelSites),
		tiers:      len(pk.SublingualTiers()),
		iterations: iterations,
	}
}

type rawPayload struct {
	Version    json.RawMessage   `json:"version"`
	Weight     json.RawMessage   `json:"weight"`
	Events     []json.RawMessage `json:"events"`
	LabResults []json.RawMessage `json:"labResults"`
}

type rawEvent struct {
	ID     string                     `json:"id"`
	Route  string                     `json:"route"`
	Ester  string                     `json:"ester"`
	TimeH  json.RawMessage            `json:"timeH"`
	DoseMG json.RawMessage            `json:"doseMG"`
	Extras map[string]json.RawMessage `json:"extras"`
}

type rawLab struct {
	ID        string          `json:"id"`
	TimeH     json.RawMessage `json:"timeH"`
	ConcValue json.RawMessage `json:"concValue"`
	Unit      string          `json:"unit"`
}

// Import decodes data for userID. data may be a payload object, a bare event
// array, or an envelope around either, in which case passphrase is required.
func (s *Sanitizer) Import(data []byte, passphrase string, userID uuid.UUID) (*ImportResult, error) {
	result := &ImportResult{}

	if env, ok := ParseEnvelope(data); ok {
		plain, err := Decrypt(env, passphrase, s.iterations)
		if err != nil {
			return nil, err
		}
		data = plain
		result.Encrypted = true
	}

	var raw rawPayload
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &raw.Events); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	default:
		return nil, ErrMalformedPayload
	}

	result.Payload = Payload{
		Version:    CurrentVersion,
		Events:     make([]domain.DoseEvent, 0, len(raw.Events)),
		LabResults: make([]domain.LabResult, 0, len(raw.LabResults)),
	}
	if w, ok := parseNumber(raw.Weight); ok && domain.ValidateWeight(w) == nil {
		result.Payload.WeightKG = &w
	}

	seen := make(map[uuid.UUID]bool)
	for i, msg := range raw.Events {
		event, ok := s.sanitizeEvent(msg, i, userID, seen)
		if !ok {
			result.RejectedEvents++
			continue
		}
		result.Payload.Events = append(result.Payload.Events, event)
	}
	result.AcceptedEvents = len(result.Payload.Events)

	for i, msg := range raw.LabResults {
		lab, ok := s.sanitizeLab(msg, i, userID, seen)
		if !ok {
			result.RejectedLabs++
			continue
		}
		result.Payload.LabResults = append(result.Payload.LabResults, lab)
	}
	result.AcceptedLabs = len(result.Payload.LabResults)

	return result, nil
}

func (s *Sanitizer) sanitizeEvent(msg json.RawMessage, index int, userID uuid.UUID, seen map[uuid.UUID]bool) (domain.DoseEvent, bool) {
	var raw rawEvent
	if err := json.Unmarshal(msg, &raw); err != nil {
		return domain.DoseEvent{}, false
	}

	route := domain.Route(raw.Route)
	ester := domain.Ester(raw.Ester)
	if !route.Valid() || !ester.Valid() {
		return domain.DoseEvent{}, false
	}
	timeH, ok := parseNumber(raw.TimeH)
	if !ok {
		return domain.DoseEvent{}, false
	}

	dose, ok := parseNumber(raw.DoseMG)
	if !ok || dose < 0 || route == domain.RoutePatchRemove {
		dose = 0
	}

	event := domain.DoseEvent{
		ID:        s.resolveID(raw.ID, "event", index, userID, seen),
		UserID:    userID,
		Route:     route,
		Ester:     ester,
		TimeH:     timeH,
		DoseMG:    dose,
		Modifiers: s.sanitizeModifiers(route, raw.Extras),
	}
	if event.Validate() != nil {
		return domain.DoseEvent{}, false
	}
	// Stored events must always simulate.
	if _, err := s.params.Bioavailability(event.Route, event.Ester, event.Modifiers); err != nil {
		return domain.DoseEvent{}, false
	}
	return event, true
}

// sanitizeModifiers keeps only the extras that make sense for route and
// clamps them into range. Custom theta wins over a tier when both are present.
func (s *Sanitizer) sanitizeModifiers(route domain.Route, extras map[string]json.RawMessage) domain.RouteModifiers {
	value := func(key string) (float64, bool) {
		msg, present := extras[key]
		if !present {
			return 0, false
		}
		return parseNumber(msg)
	}

	switch route {
	case domain.RoutePatchApply:
		if rate, ok := value(domain.ExtraReleaseRate); ok && rate > 0 {
			return domain.PatchRate{UGPerDay: rate}
		}
	case domain.RouteSublingual:
		if theta, ok := value(domain.ExtraSublingualTheta); ok {
			return domain.SublingualCustom{Theta: math.Min(math.Max(theta, 0), 1)}
		}
		if tier, ok := value(domain.ExtraSublingualTier); ok {
			return domain.SublingualTier{Index: clampIndex(tier, s.tiers)}
		}
	case domain.RouteGel:
		if site, ok := value(domain.ExtraGelSite); ok {
			return domain.GelSite{Index: clampIndex(site, s.gelSites)}
		}
	}
	return domain.NoModifiers{}
}

func (s *Sanitizer) sanitizeLab(msg json.RawMessage, index int, userID uuid.UUID, seen map[uuid.UUID]bool) (domain.LabResult, bool) {
	var raw rawLab
	if err := json.Unmarshal(msg, &raw); err != nil {
		return domain.LabResult{}, false
	}
	timeH, ok := parseNumber(raw.TimeH)
	if !ok {
		return domain.LabResult{}, false
	}
	value, ok := parseNumber(raw.ConcValue)
	if !ok || value < 0 {
		return domain.LabResult{}, false
	}

	unit := domain.LabUnit(strings.ToLower(strings.TrimSpace(raw.Unit)))
	if !unit.Valid() {
		unit = domain.CanonicalLabUnit
	}

	lab := domain.LabResult{
		ID:        s.resolveID(raw.ID, "lab", index, userID, seen),
		UserID:    userID,
		TimeH:     timeH,
		ConcValue: value,
		Unit:      unit,
	}
	return lab, lab.Validate() == nil
}

// resolveID keeps a well-formed unique id and otherwise derives one from the
// user, the record kind and its position, so re-importing the same file
// yields the same ids.
func (s *Sanitizer) resolveID(raw, kind string, index int, userID uuid.UUID, seen map[uuid.UUID]bool) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil || seen[id] {
		id = uuid.NewSHA1(userID, []byte(kind+":"+strconv.Itoa(index)+":"+raw))
	}
	seen[id] = true
	return id
}

// parseNumber accepts JSON numbers and numeric strings and rejects anything
// non-finite.
func parseNumber(msg json.RawMessage) (float64, bool) {
	if len(msg) == 0 {
		return 0, false
	}
	text := string(bytes.TrimSpace(msg))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clampIndex(v float64, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Min(math.Max(math.Round(v), 0), float64(n-1)))
}
