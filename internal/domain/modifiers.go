package domain

import (
	"fmt"
	"math"
)

// Wire keys of the extras object attached to a dose event.
const (
	ExtraReleaseRate     = "releaseRateUGPerDay"
	ExtraSublingualTier  = "sublingualTier"
	ExtraSublingualTheta = "sublingualTheta"
	ExtraGelSite         = "gelSite"
)

// RouteModifiers is the closed set of per-route dose modifiers. Exactly one
// variant applies to an event; nil is equivalent to NoModifiers.
type RouteModifiers interface {
	isRouteModifiers()
}

// NoModifiers marks an event without route-specific extras.
type NoModifiers struct{}

// PatchRate is an explicit patch release rate in micrograms per day.
type PatchRate struct {
	UGPerDay float64
}

// SublingualTier selects a preset hold tier by index.
type SublingualTier struct {
	Index int
}

// SublingualCustom supplies the sublingually absorbed fraction directly.
type SublingualCustom struct {
	Theta float64
}

// GelSite selects the gel application site by index.
type GelSite struct {
	Index int
}

func (NoModifiers) isRouteModifiers()      {}
func (PatchRate) isRouteModifiers()        {}
func (SublingualTier) isRouteModifiers()   {}
func (SublingualCustom) isRouteModifiers() {}
func (GelSite) isRouteModifiers()          {}

// AllowedFor reports whether modifiers m may be attached to an event on route r.
func AllowedFor(r Route, m RouteModifiers) bool {
	switch m.(type) {
	case nil, NoModifiers:
		return true
	case PatchRate:
		return r == RoutePatchApply
	case SublingualTier, SublingualCustom:
		return r == RouteSublingual
	case GelSite:
		return r == RouteGel
	}
	return false
}

// ModifiersFromExtras decodes the wire extras map for route r. Keys that do not
// belong to r are rejected, as are mutually exclusive combinations.
func ModifiersFromExtras(r Route, extras map[string]float64) (RouteModifiers, error) {
	if len(extras) == 0 {
		return NoModifiers{}, nil
	}

	for key, v := range extras {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s is not finite", ErrValidation, key)
		}
		if !extraAllowed(r, key) {
			return nil, fmt.Errorf("%w: %s on %s", ErrModifierRoute, key, r)
		}
	}

	switch r {
	case RoutePatchApply:
		return PatchRate{UGPerDay: extras[ExtraReleaseRate]}, nil
	case RouteSublingual:
		tier, hasTier := extras[ExtraSublingualTier]
		theta, hasTheta := extras[ExtraSublingualTheta]
		if hasTier && hasTheta {
			return nil, fmt.Errorf("%w: %s and %s", ErrConflictingExtras,
				ExtraSublingualTier, ExtraSublingualTheta)
		}
		if hasTheta {
			return SublingualCustom{Theta: theta}, nil
		}
		return SublingualTier{Index: int(math.Round(tier))}, nil
	case RouteGel:
		return GelSite{Index: int(math.Round(extras[ExtraGelSite]))}, nil
	}

	return NoModifiers{}, nil
}

// ExtrasFromModifiers encodes m into its wire map. NoModifiers encodes as nil.
func ExtrasFromModifiers(m RouteModifiers) map[string]float64 {
	switch v := m.(type) {
	case PatchRate:
		return map[string]float64{ExtraReleaseRate: v.UGPerDay}
	case SublingualTier:
		return map[string]float64{ExtraSublingualTier: float64(v.Index)}
	case SublingualCustom:
		return map[string]float64{ExtraSublingualTheta: v.Theta}
	case GelSite:
		return map[string]float64{ExtraGelSite: float64(v.Index)}
	}
	return nil
}

// extraAllowed reports whether an extras key is meaningful for route r.
func extraAllowed(r Route, key string) bool {
	switch key {
	case ExtraReleaseRate:
		return r == RoutePatchApply
	case ExtraSublingualTier, ExtraSublingualTheta:
		return r == RouteSublingual
	case ExtraGelSite:
		return r == RouteGel
	}
	return false
}
