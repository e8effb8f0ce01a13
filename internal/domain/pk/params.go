package pk

import (
	"math"

	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// KineticParams holds the first-order rate constants of one route/compound
// pairing, expressed as half-lives in hours. Zero-order (patch) pairings only
// use the elimination half-life.
type KineticParams struct {
	AbsorptionHalfLifeH  float64
	EliminationHalfLifeH float64
}

// Ka returns the absorption rate constant in 1/h.
func (k KineticParams) Ka() float64 {
	return math.Ln2 / k.AbsorptionHalfLifeH
}

// Ke returns the elimination rate constant in 1/h.
func (k KineticParams) Ke() float64 {
	return math.Ln2 / k.EliminationHalfLifeH
}

// ModelKey identifies a route/compound pairing in the kinetic table.
type ModelKey struct {
	Route domain.Route
	Ester domain.Ester
}

// GelSiteParams describes one gel application site.
type GelSiteParams struct {
	Name     string
	Fraction float64
}

// Params defines all configurable parameters of the kinetic model
type Params struct {
	// Time grid
	StepHours    float64
	HorizonHours float64

	// Implicit wear duration of a patch logged by total dose
	PatchWearHours float64

	// Apparent volume of distribution per kg of body weight, in L/kg
	EstrogenVdPerKG     float64
	AntiAndrogenVdPerKG float64

	// Rate constants per route/compound pairing
	Kinetics map[ModelKey]KineticParams

	// Fraction surviving first-pass metabolism when swallowed
	OralBioavailability map[domain.Ester]float64

	// Transdermal gel absorption by application site
	GelSites []GelSiteParams

	// Upper bound on grid size for a single simulation
	MaxGridPoints int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	StepHours           float64
	HorizonHours        float64
	PatchWearHours      float64
	EstrogenVdPerKG     float64
	AntiAndrogenVdPerKG float64
	MaxGridPoints       int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		StepHours:    1,
		HorizonHours: 14 * 24,

		// Twice-weekly patch change
		PatchWearHours: 84,

		EstrogenVdPerKG:     6.0,
		AntiAndrogenVdPerKG: 4.0,

		Kinetics: map[ModelKey]KineticParams{
			// Intramuscular depots: slower release for longer ester chains
			{domain.RouteInjection, domain.EsterE2}: {AbsorptionHalfLifeH: 18, EliminationHalfLifeH: 2},
			{domain.RouteInjection, domain.EsterEB}: {AbsorptionHalfLifeH: 30, EliminationHalfLifeH: 2},
			{domain.RouteInjection, domain.EsterEV}: {AbsorptionHalfLifeH: 48, EliminationHalfLifeH: 2},
			{domain.RouteInjection, domain.EsterEN}: {AbsorptionHalfLifeH: 96, EliminationHalfLifeH: 2},
			{domain.RouteInjection, domain.EsterEC}: {AbsorptionHalfLifeH: 120, EliminationHalfLifeH: 2},

			// Oral elimination includes the estrone reservoir
			{domain.RouteOral, domain.EsterE2}:  {AbsorptionHalfLifeH: 1.5, EliminationHalfLifeH: 14},
			{domain.RouteOral, domain.EsterEV}:  {AbsorptionHalfLifeH: 2, EliminationHalfLifeH: 14},
			{domain.RouteOral, domain.EsterCPA}: {AbsorptionHalfLifeH: 1.4, EliminationHalfLifeH: 40},

			{domain.RouteSublingual, domain.EsterE2}: {AbsorptionHalfLifeH: 0.5, EliminationHalfLifeH: 6},
			{domain.RouteSublingual, domain.EsterEV}: {AbsorptionHalfLifeH: 0.75, EliminationHalfLifeH: 6},

			{domain.RouteGel, domain.EsterE2}: {AbsorptionHalfLifeH: 4, EliminationHalfLifeH: 12},

			{domain.RoutePatchApply, domain.EsterE2}: {EliminationHalfLifeH: 4},
		},

		OralBioavailability: map[domain.Ester]float64{
			domain.EsterE2:  0.03,
			domain.EsterEV:  0.025,
			domain.EsterCPA: 0.88,
		},

		GelSites: []GelSiteParams{
			{Name: "arm", Fraction: 0.10},
			{Name: "thigh", Fraction: 0.08},
			{Name: "abdomen", Fraction: 0.08},
			{Name: "scrotal", Fraction: 0.40},
		},

		MaxGridPoints: 1_000_000,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.StepHours > 0 {
		params.StepHours = config.StepHours
	}
	if config.HorizonHours > 0 {
		params.HorizonHours = config.HorizonHours
	}
	if config.PatchWearHours > 0 {
		params.PatchWearHours = config.PatchWearHours
	}
	if config.EstrogenVdPerKG > 0 {
		params.EstrogenVdPerKG = config.EstrogenVdPerKG
	}
	if config.AntiAndrogenVdPerKG > 0 {
		params.AntiAndrogenVdPerKG = config.AntiAndrogenVdPerKG
	}
	if config.MaxGridPoints > 0 {
		params.MaxGridPoints = config.MaxGridPoints
	}

	return params
}

// kinetics looks up the rate constants for a pairing.
func (p *Params) kinetics(route domain.Route, ester domain.Ester) (KineticParams, error) {
	k, ok := p.Kinetics[ModelKey{Route: route, Ester: ester}]
	if !ok {
		return KineticParams{}, &ModelError{Route: route, Ester: ester}
	}
	return k, nil
}

// distributionVolumeL returns the apparent distribution volume in litres.
func (p *Params) distributionVolumeL(ester domain.Ester, weightKG float64) float64 {
	if ester.IsAntiAndrogen() {
		return p.AntiAndrogenVdPerKG * weightKG
	}
	return p.EstrogenVdPerKG * weightKG
}
