package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/events"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

// ProfileService manages per-user simulation settings.
type ProfileService interface {
	// Get returns the stored profile, or one carrying the default weight when
	// the user never saved one.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// UpdateWeight validates and stores the body weight in kilograms.
	UpdateWeight(ctx context.Context, userID uuid.UUID, weightKG float64) (*domain.Profile, error)
}

type profileServiceImpl struct {
	profiles      store.ProfileStore
	defaultWeight float64
	emitter       events.EventEmitter
	logger        *slog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	profiles store.ProfileStore,
	defaultWeightKG float64,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (ProfileService, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile store cannot be nil")
	}
	if err := domain.ValidateWeight(defaultWeightKG); err != nil {
		return nil, fmt.Errorf("default weight: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &profileServiceImpl{
		profiles:      profiles,
		defaultWeight: defaultWeightKG,
		emitter:       emitter,
		logger:        logger.With("component", "profile_service"),
	}, nil
}

func (s *profileServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		return &domain.Profile{UserID: userID, WeightKG: s.defaultWeight}, nil
	}
	if err != nil {
		return nil, NewServiceError("get_profile", "failed to load profile", err)
	}
	return profile, nil
}

func (s *profileServiceImpl) UpdateWeight(
	ctx context.Context,
	userID uuid.UUID,
	weightKG float64,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile := &domain.Profile{
		UserID:    userID,
		WeightKG:  weightKG,
		UpdatedAt: time.Now().UTC(),
	}
	if err := profile.Validate(); err != nil {
		return nil, NewServiceError("update_profile", "invalid profile", err)
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		log.Error("failed to save profile",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError("update_profile", "failed to save profile", err)
	}

	notifyChanged(ctx, s.emitter, log, events.TypeProfileChanged, userID)
	return profile, nil
}
