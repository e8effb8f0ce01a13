package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/platform/cache"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/render"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

// Snapshot is everything derived from a user's stored inputs at one instant.
type Snapshot struct {
	Events   []domain.DoseEvent
	Labs     []domain.LabResult
	WeightKG float64
	NowH     float64
	Sim      *pk.SimulationResult
	Cal      *pk.Calibration
	// Cached reports whether Sim came from the result cache.
	Cached bool
}

// SimulationView is the JSON shape of a simulation response.
type SimulationView struct {
	NowH              float64               `json:"nowH"`
	WeightKG          float64               `json:"weightKG"`
	TimeH             []float64             `json:"timeH"`
	E2                []float64             `json:"e2"`
	CPA               []float64             `json:"cpa"`
	CalibratedE2      []float64             `json:"calibratedE2"`
	CalibrationPoints []pk.CalibrationPoint `json:"calibrationPoints"`
}

// PointEstimate holds the concentrations at a single hour. Values are nil
// outside the simulated grid.
type PointEstimate struct {
	Hour         float64  `json:"hour"`
	E2           *float64 `json:"e2"`
	CalibratedE2 *float64 `json:"calibratedE2"`
	CPA          *float64 `json:"cpa"`
	Multiplier   float64  `json:"multiplier"`
}

// SimulationService computes concentration curves from stored inputs.
type SimulationService interface {
	// Snapshot loads the user's inputs and simulates them as of now.
	Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error)

	// Simulate returns the full curve with its calibration.
	Simulate(ctx context.Context, userID uuid.UUID) (*SimulationView, error)

	// PointAt estimates the concentrations at hour.
	PointAt(ctx context.Context, userID uuid.UUID, hour float64) (*PointEstimate, error)

	// Chart writes the curve as a PNG.
	Chart(ctx context.Context, userID uuid.UUID, w io.Writer, opts render.ChartOptions) error

	// Badge writes the current calibrated estradiol level as a PNG badge.
	Badge(ctx context.Context, userID uuid.UUID, w io.Writer, opts render.BadgeOptions) error
}

// SimulationServiceOption configures optional collaborators.
type SimulationServiceOption func(*simulationServiceImpl)

// WithResultCache memoizes simulations in c for ttl.
func WithResultCache(c cache.SimulationCache, ttl time.Duration) SimulationServiceOption {
	return func(s *simulationServiceImpl) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SimulationServiceOption {
	return func(s *simulationServiceImpl) {
		s.now = now
	}
}

type simulationServiceImpl struct {
	doses    store.DoseStore
	labs     store.LabStore
	profiles ProfileService
	model    pk.Service
	cache    cache.SimulationCache
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewSimulationService creates a new SimulationService.
func NewSimulationService(
	doses store.DoseStore,
	labs store.LabStore,
	profiles ProfileService,
	model pk.Service,
	logger *slog.Logger,
	opts ...SimulationServiceOption,
) (SimulationService, error) {
	if doses == nil || labs == nil {
		return nil, fmt.Errorf("dose and lab stores cannot be nil")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile service cannot be nil")
	}
	if model == nil {
		return nil, fmt.Errorf("kinetic model cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &simulationServiceImpl{
		doses:    doses,
		labs:     labs,
		profiles: profiles,
		model:    model,
		now:      time.Now,
		logger:   logger.With("component", "simulation_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *simulationServiceImpl) Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	evts, err := s.doses.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("simulate", "failed to load dose events", err)
	}
	labs, err := s.labs.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("simulate", "failed to load lab results", err)
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Events:   evts,
		Labs:     labs,
		WeightKG: profile.WeightKG,
		NowH:     s.flooredNow(),
	}

	hash, err := s.inputHash(snap)
	if err != nil {
		return nil, NewServiceError("simulate", "failed to hash inputs", err)
	}

	if sim, ok := s.cached(ctx, log, userID, hash); ok {
		snap.Sim = sim
		snap.Cached = true
	} else {
		sim, err := s.model.Simulate(evts, snap.WeightKG, snap.NowH)
		if err != nil {
			return nil, NewServiceError("simulate", "simulation failed", err)
		}
		snap.Sim = sim
		s.store(ctx, log, userID, hash, sim)
	}

	snap.Cal = s.model.Calibrate(snap.Sim, labs)
	return snap, nil
}

func (s *simulationServiceImpl) Simulate(ctx context.Context, userID uuid.UUID) (*SimulationView, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	points := snap.Cal.Points()
	if points == nil {
		points = []pk.CalibrationPoint{}
	}
	return &SimulationView{
		NowH:              snap.NowH,
		WeightKG:          snap.WeightKG,
		TimeH:             snap.Sim.TimeH,
		E2:                snap.Sim.Estrogen,
		CPA:               snap.Sim.AntiAndrogen,
		CalibratedE2:      snap.Cal.CalibratedEstrogen(),
		CalibrationPoints: points,
	}, nil
}

func (s *simulationServiceImpl) PointAt(
	ctx context.Context,
	userID uuid.UUID,
	hour float64,
) (*PointEstimate, error) {
	if math.IsNaN(hour) || math.IsInf(hour, 0) {
		return nil, NewServiceError("simulate_point", "invalid hour", ErrInvalidHour)
	}
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	est := &PointEstimate{Hour: hour, Multiplier: snap.Cal.Multiplier(hour)}
	if v, ok := snap.Sim.EstrogenAt(hour); ok {
		est.E2 = &v
	}
	if v, ok := snap.Cal.CalibratedEstrogenAt(hour); ok {
		est.CalibratedE2 = &v
	}
	if v, ok := snap.Sim.AntiAndrogenAt(hour); ok {
		est.CPA = &v
	}
	return est, nil
}

func (s *simulationServiceImpl) Chart(
	ctx context.Context,
	userID uuid.UUID,
	w io.Writer,
	opts render.ChartOptions,
) error {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if opts.Labs == nil {
		opts.Labs = snap.Labs
	}
	if err := render.Chart(w, snap.Sim, snap.Cal, opts); err != nil {
		return NewServiceError("chart", "failed to render chart", err)
	}
	return nil
}

func (s *simulationServiceImpl) Badge(
	ctx context.Context,
	userID uuid.UUID,
	w io.Writer,
	opts render.BadgeOptions,
) error {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	value, ok := snap.Cal.CalibratedEstrogenAt(snap.NowH)
	if err := render.Badge(w, value, ok, opts); err != nil {
		return NewServiceError("badge", "failed to render badge", err)
	}
	return nil
}

// flooredNow aligns the current time to the grid step so that repeated
// requests within one step share a cache entry and an identical curve.
func (s *simulationServiceImpl) flooredNow() float64 {
	step := s.model.Params().StepHours
	h := domain.TimeToHours(s.now())
	return math.Floor(h/step) * step
}

type hashInput struct {
	Events         []domain.DoseEvent `json:"events"`
	WeightKG       float64            `json:"weightKG"`
	StepHours      float64            `json:"step"`
	HorizonHours   float64            `json:"horizon"`
	PatchWearHours float64            `json:"patchWear"`
	NowH           float64            `json:"nowH"`
}

func (s *simulationServiceImpl) inputHash(snap *Snapshot) (string, error) {
	params := s.model.Params()
	data, err := json.Marshal(hashInput{
		Events:         snap.Events,
		WeightKG:       snap.WeightKG,
		StepHours:      params.StepHours,
		HorizonHours:   params.HorizonHours,
		PatchWearHours: params.PatchWearHours,
		NowH:           snap.NowH,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (s *simulationServiceImpl) cached(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	hash string,
) (*pk.SimulationResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	entry, err := s.cache.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("simulation cache read failed", "error", err, "user_id", userID)
		}
		return nil, false
	}
	if entry.InputHash != hash {
		return nil, false
	}
	var sim pk.SimulationResult
	if err := json.Unmarshal(entry.Payload, &sim); err != nil {
		log.Warn("discarding unreadable cache entry", "error", err, "user_id", userID)
		return nil, false
	}
	return &sim, true
}

func (s *simulationServiceImpl) store(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	hash string,
	sim *pk.SimulationResult,
) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(sim)
	if err != nil {
		log.Warn("failed to encode simulation for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, userID, cache.Entry{InputHash: hash, Payload: payload}, s.ttl); err != nil {
		log.Warn("simulation cache write failed", "error", err, "user_id", userID)
	}
}
