package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/events"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

// LabService manages a user's lab results.
type LabService interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.LabResult, error)
	Create(ctx context.Context, userID uuid.UUID, timeH, value float64, unit domain.LabUnit) (*domain.LabResult, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type labServiceImpl struct {
	labs    store.LabStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewLabService creates a new LabService.
func NewLabService(labs store.LabStore, emitter events.EventEmitter, logger *slog.Logger) (LabService, error) {
	if labs == nil {
		return nil, fmt.Errorf("lab store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &labServiceImpl{
		labs:    labs,
		emitter: emitter,
		logger:  logger.With("component", "lab_service"),
	}, nil
}

func (s *labServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.LabResult, error) {
	list, err := s.labs.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_labs", "failed to load lab results", err)
	}
	return list, nil
}

func (s *labServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	timeH, value float64,
	unit domain.LabUnit,
) (*domain.LabResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lab, err := domain.NewLabResult(userID, timeH, value, unit)
	if err != nil {
		return nil, NewServiceError("create_lab", "invalid lab result", err)
	}
	if err := s.labs.Create(ctx, lab); err != nil {
		log.Error("failed to save lab result",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError("create_lab", "failed to save lab result", err)
	}

	notifyChanged(ctx, s.emitter, log, events.TypeLabsChanged, userID)
	return lab, nil
}

// Delete removes a lab result. The store scopes the delete to userID, so a
// result owned by someone else reports not found.
func (s *labServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.labs.Delete(ctx, userID, id); err != nil {
		return NewServiceError("delete_lab", "failed to delete lab result", err)
	}
	notifyChanged(ctx, s.emitter, log, events.TypeLabsChanged, userID)
	return nil
}
