package pk

import (
	"fmt"

	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// Bioavailability returns the fraction of the administered (estradiol-equivalent
// for estrogens) mass that reaches circulation for the given route, compound and
// modifiers. Pairings without a kinetic model fail with ErrUnmodeledCombination.
func (p *Params) Bioavailability(
	route domain.Route,
	ester domain.Ester,
	mods domain.RouteModifiers,
) (float64, error) {
	if !domain.AllowedFor(route, mods) {
		return 0, fmt.Errorf("%w: %T on %s", ErrInvalidModifier, mods, route)
	}

	// Patch removal has no curve of its own, so the pairing check does not apply.
	if route == domain.RoutePatchRemove {
		return 1, nil
	}
	if _, err := p.kinetics(route, ester); err != nil {
		return 0, err
	}

	switch route {
	case domain.RouteInjection, domain.RoutePatchApply:
		return 1, nil

	case domain.RouteOral:
		return p.oralFraction(route, ester)

	case domain.RouteSublingual:
		oral, err := p.oralFraction(route, ester)
		if err != nil {
			return 0, err
		}
		theta, err := sublingualTheta(mods)
		if err != nil {
			return 0, err
		}
		return theta + (1-theta)*oral, nil

	case domain.RouteGel:
		site := 0
		if g, ok := mods.(domain.GelSite); ok {
			site = g.Index
		}
		if site < 0 || site >= len(p.GelSites) {
			return 0, fmt.Errorf("%w: gel site %d", ErrInvalidModifier, site)
		}
		return clamp(p.GelSites[site].Fraction, 0, 1), nil
	}

	return 0, &ModelError{Route: route, Ester: ester}
}

func (p *Params) oralFraction(route domain.Route, ester domain.Ester) (float64, error) {
	f, ok := p.OralBioavailability[ester]
	if !ok {
		return 0, &ModelError{Route: route, Ester: ester}
	}
	return clamp(f, 0, 1), nil
}

// sublingualTheta resolves theta from a custom value or a preset tier.
func sublingualTheta(mods domain.RouteModifiers) (float64, error) {
	switch m := mods.(type) {
	case domain.SublingualCustom:
		return clamp(m.Theta, 0, 1), nil
	case domain.SublingualTier:
		tier, ok := SublingualTier(m.Index)
		if !ok {
			return 0, fmt.Errorf("%w: sublingual tier %d", ErrInvalidModifier, m.Index)
		}
		return tier.Theta, nil
	}
	tier, _ := SublingualTier(DefaultSublingualTier)
	return tier.Theta, nil
}
