package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
)

// PKHandler exposes the model's reference tables. It needs no user.
type PKHandler struct {
	model  pk.Service
	logger *slog.Logger
}

// NewPKHandler creates a new PKHandler.
func NewPKHandler(model pk.Service, logger *slog.Logger) *PKHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PKHandler{
		model:  model,
		logger: logger.With(slog.String("component", "pk_handler")),
	}
}

// GetFactor handles GET /api/pk/factor?ester=.
func (h *PKHandler) GetFactor(w http.ResponseWriter, r *http.Request) {
	ester, err := domain.ParseEster(r.URL.Query().Get("ester"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := FactorResponse{Ester: ester, Factor: h.model.ToE2Factor(ester)}
	if mw, ok := pk.MolarMass(ester); ok {
		resp.MolarMass = &mw
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetConversion handles GET /api/pk/convert?value=&unit=, reporting an
// estradiol lab value in both units.
func (h *PKHandler) GetConversion(w http.ResponseWriter, r *http.Request) {
	value, present, err := getQueryFloat(r, "value")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !present {
		HandleAPIError(w, r, fmt.Errorf("%w: value is required", ErrInvalidParameter), "")
		return
	}

	unit := domain.LabUnit(r.URL.Query().Get("unit"))
	if unit == "" {
		unit = domain.CanonicalLabUnit
	}
	if !unit.Valid() {
		HandleAPIError(w, r, fmt.Errorf("%w: %q", domain.ErrInvalidLabUnit, unit), "")
		return
	}

	pg := pk.ConvertToPgPerML(value, unit)
	shared.RespondWithJSON(w, r, http.StatusOK, ConversionResponse{
		PgPerML:  pg,
		PmolPerL: pk.ConvertFromPgPerML(pg, domain.LabUnitPmolPerL),
	})
}

// ResolveBioavailability handles POST /api/pk/bioavailability.
func (h *PKHandler) ResolveBioavailability(w http.ResponseWriter, r *http.Request) {
	var req BioavailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	route, err := domain.ParseRoute(req.Route)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	ester, err := domain.ParseEster(req.Ester)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	mods, err := domain.ModifiersFromExtras(route, req.Extras)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	fraction, err := h.model.Bioavailability(route, ester, mods)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BioavailabilityResponse{
		Route:    route,
		Ester:    ester,
		Fraction: fraction,
		E2Factor: h.model.ToE2Factor(ester),
	})
}

// GetSublingual handles GET /api/pk/sublingual?hold= or ?theta=. Without
// either parameter it reports the default tier.
func (h *PKHandler) GetSublingual(w http.ResponseWriter, r *http.Request) {
	hold, hasHold, err := getQueryFloat(r, "hold")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	theta, hasTheta, err := getQueryFloat(r, "theta")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var resp SublingualResponse
	switch {
	case hasHold && hasTheta:
		HandleAPIError(w, r, fmt.Errorf("%w: give hold or theta, not both", ErrInvalidParameter), "")
		return
	case hasHold:
		if hold < 0 {
			HandleAPIError(w, r, fmt.Errorf("%w: hold must be non-negative", ErrInvalidParameter), "")
			return
		}
		resp.HoldMinutes = hold
		resp.Theta = pk.ThetaFromHold(hold)
	case hasTheta:
		if theta < 0 || theta > 1 {
			HandleAPIError(w, r, fmt.Errorf("%w: theta must be in [0, 1]", ErrInvalidParameter), "")
			return
		}
		resp.Theta = theta
		resp.HoldMinutes = pk.HoldFromTheta(theta)
	default:
		tier, _ := pk.SublingualTier(pk.DefaultSublingualTier)
		resp.HoldMinutes = tier.HoldMinutes
		resp.Theta = tier.Theta
	}

	for i, tier := range pk.SublingualTiers() {
		resp.Tiers = append(resp.Tiers, SublingualTierResponse{
			Index:       i,
			Name:        tier.Name,
			HoldMinutes: tier.HoldMinutes,
			Theta:       tier.Theta,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
