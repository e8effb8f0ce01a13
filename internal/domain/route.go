package domain

import "fmt"

// Route is the administration route of a dose event.
type Route string

const (
	RouteInjection   Route = "injection"
	RouteOral        Route = "oral"
	RouteSublingual  Route = "sublingual"
	RoutePatchApply  Route = "patchApply"
	RoutePatchRemove Route = "patchRemove"
	RouteGel         Route = "gel"
)

// Routes lists every supported route in a stable order.
var Routes = []Route{
	RouteInjection,
	RouteOral,
	RouteSublingual,
	RoutePatchApply,
	RoutePatchRemove,
	RouteGel,
}

// Valid reports whether r is a supported route.
func (r Route) Valid() bool {
	switch r {
	case RouteInjection, RouteOral, RouteSublingual, RoutePatchApply, RoutePatchRemove, RouteGel:
		return true
	}
	return false
}

// IsPatch reports whether the route belongs to the patch family.
func (r Route) IsPatch() bool {
	return r == RoutePatchApply || r == RoutePatchRemove
}

// ParseRoute converts a wire value into a Route.
func ParseRoute(s string) (Route, error) {
	r := Route(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRoute, s)
	}
	return r, nil
}

// Ester is the administered compound variant. Five estradiol variants share
// estradiol as the reference compound; cyproterone acetate is tracked on its own.
type Ester string

const (
	EsterE2  Ester = "E2"  // estradiol, the reference compound
	EsterEB  Ester = "EB"  // estradiol benzoate
	EsterEV  Ester = "EV"  // estradiol valerate
	EsterEC  Ester = "EC"  // estradiol cypionate
	EsterEN  Ester = "EN"  // estradiol enanthate
	EsterCPA Ester = "CPA" // cyproterone acetate
)

// Esters lists every supported compound variant in a stable order.
var Esters = []Ester{EsterE2, EsterEB, EsterEV, EsterEC, EsterEN, EsterCPA}

// Valid reports whether e is a supported compound variant.
func (e Ester) Valid() bool {
	switch e {
	case EsterE2, EsterEB, EsterEV, EsterEC, EsterEN, EsterCPA:
		return true
	}
	return false
}

// IsAntiAndrogen reports whether e belongs to the anti-androgen series.
func (e Ester) IsAntiAndrogen() bool {
	return e == EsterCPA
}

// ParseEster converts a wire value into an Ester.
func ParseEster(s string) (Ester, error) {
	e := Ester(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEster, s)
	}
	return e, nil
}
