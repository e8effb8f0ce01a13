package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/events"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

// DoseInput carries the user-editable fields of a dose event.
type DoseInput struct {
	Route     domain.Route
	Ester     domain.Ester
	TimeH     float64
	DoseMG    float64
	Modifiers domain.RouteModifiers
}

// DoseService manages a user's dose history.
type DoseService interface {
	// List returns the user's events in time order.
	List(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error)

	// Create validates and stores a new event.
	Create(ctx context.Context, userID uuid.UUID, input DoseInput) (*domain.DoseEvent, error)

	// Update replaces an event owned by userID.
	// Returns ErrNotOwned when the event belongs to someone else.
	Update(ctx context.Context, userID, id uuid.UUID, input DoseInput) (*domain.DoseEvent, error)

	// Delete removes an event owned by userID.
	// Returns ErrNotOwned when the event belongs to someone else.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type doseServiceImpl struct {
	doses   store.DoseStore
	model   pk.Service
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewDoseService creates a new DoseService. Events whose route and compound
// have no kinetic model are rejected at write time so that a stored history
// can always be simulated.
func NewDoseService(
	doses store.DoseStore,
	model pk.Service,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (DoseService, error) {
	if doses == nil {
		return nil, fmt.Errorf("dose store cannot be nil")
	}
	if model == nil {
		return nil, fmt.Errorf("kinetic model cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &doseServiceImpl{
		doses:   doses,
		model:   model,
		emitter: emitter,
		logger:  logger.With("component", "dose_service"),
	}, nil
}

func (s *doseServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error) {
	list, err := s.doses.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_doses", "failed to load dose events", err)
	}
	return list, nil
}

func (s *doseServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	input DoseInput,
) (*domain.DoseEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := domain.NewDoseEvent(userID, input.Route, input.Ester, input.TimeH, input.DoseMG, input.Modifiers)
	if err != nil {
		return nil, NewServiceError("create_dose", "invalid dose event", err)
	}
	if err := s.checkModeled(event); err != nil {
		return nil, NewServiceError("create_dose", "dose cannot be simulated", err)
	}

	if err := s.doses.Create(ctx, event); err != nil {
		log.Error("failed to save dose event",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError("create_dose", "failed to save dose event", err)
	}

	log.Debug("dose event created",
		"dose_id", event.ID,
		"route", event.Route,
		"ester", event.Ester)
	notifyChanged(ctx, s.emitter, log, events.TypeDosesChanged, userID)
	return event, nil
}

func (s *doseServiceImpl) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	input DoseInput,
) (*domain.DoseEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := s.owned(ctx, "update_dose", userID, id)
	if err != nil {
		return nil, err
	}

	if input.Modifiers == nil {
		input.Modifiers = domain.NoModifiers{}
	}
	event.Route = input.Route
	event.Ester = input.Ester
	event.TimeH = input.TimeH
	event.DoseMG = input.DoseMG
	event.Modifiers = input.Modifiers
	if err := event.Validate(); err != nil {
		return nil, NewServiceError("update_dose", "invalid dose event", err)
	}
	if err := s.checkModeled(event); err != nil {
		return nil, NewServiceError("update_dose", "dose cannot be simulated", err)
	}

	if err := s.doses.Update(ctx, event); err != nil {
		log.Error("failed to update dose event",
			"error", err,
			"dose_id", id)
		return nil, NewServiceError("update_dose", "failed to update dose event", err)
	}

	notifyChanged(ctx, s.emitter, log, events.TypeDosesChanged, userID)
	return event, nil
}

func (s *doseServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.owned(ctx, "delete_dose", userID, id); err != nil {
		return err
	}
	if err := s.doses.Delete(ctx, id); err != nil {
		return NewServiceError("delete_dose", "failed to delete dose event", err)
	}

	log.Debug("dose event deleted", "dose_id", id)
	notifyChanged(ctx, s.emitter, log, events.TypeDosesChanged, userID)
	return nil
}

// owned loads an event and verifies it belongs to userID.
func (s *doseServiceImpl) owned(
	ctx context.Context,
	op string,
	userID, id uuid.UUID,
) (*domain.DoseEvent, error) {
	event, err := s.doses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrDoseNotFound) {
			return nil, NewServiceError(op, "dose event not found", err)
		}
		return nil, NewServiceError(op, "failed to load dose event", err)
	}
	if event.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("dose event ownership check failed",
			"dose_id", id,
			"user_id", userID)
		return nil, NewServiceError(op, "dose event belongs to another user", ErrNotOwned)
	}
	return event, nil
}

func (s *doseServiceImpl) checkModeled(event *domain.DoseEvent) error {
	_, err := s.model.Bioavailability(event.Route, event.Ester, event.Modifiers)
	return err
}
