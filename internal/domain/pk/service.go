package pk

import "github.com/hrtrack/hrtrack-api/internal/domain"

// Service defines the operations the rest of the application uses from the
// kinetic model. Implementations are stateless and safe for concurrent use.
type Service interface {
	// Simulate superposes all dose events onto a time grid. nowH extends the
	// grid so that the curve always reaches the present.
	Simulate(events []domain.DoseEvent, weightKG, nowH float64) (*SimulationResult, error)

	// Calibrate builds the lab-derived multiplier for a simulation.
	Calibrate(sim *SimulationResult, labs []domain.LabResult) *Calibration

	// Bioavailability resolves the absorbed fraction for a route/compound pairing.
	Bioavailability(route domain.Route, ester domain.Ester, mods domain.RouteModifiers) (float64, error)

	// ToE2Factor converts administered ester mass into estradiol-equivalent mass.
	ToE2Factor(ester domain.Ester) float64

	// Params exposes the parameters in use. Callers must not modify them.
	Params() *Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new kinetic model service with default parameters
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a new kinetic model service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

func (s *defaultService) Simulate(
	events []domain.DoseEvent,
	weightKG, nowH float64,
) (*SimulationResult, error) {
	return s.params.Simulate(events, weightKG, nowH)
}

func (s *defaultService) Calibrate(sim *SimulationResult, labs []domain.LabResult) *Calibration {
	return NewCalibration(sim, labs)
}

func (s *defaultService) Bioavailability(
	route domain.Route,
	ester domain.Ester,
	mods domain.RouteModifiers,
) (float64, error) {
	return s.params.Bioavailability(route, ester, mods)
}

func (s *defaultService) ToE2Factor(ester domain.Ester) float64 {
	return ToE2Factor(ester)
}

func (s *defaultService) Params() *Params {
	return s.params
}
