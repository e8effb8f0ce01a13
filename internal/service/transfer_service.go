package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/events"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
)

// TransferService moves a user's data in and out of export files.
type TransferService interface {
	// Export returns the user's data as a JSON payload, or as an encrypted
	// envelope when passphrase is non-empty.
	Export(ctx context.Context, userID uuid.UUID, passphrase string) ([]byte, error)

	// ExportWorkbook writes the user's data and curve as an XLSX workbook.
	ExportWorkbook(ctx context.Context, userID uuid.UUID, w io.Writer) error

	// Import sanitizes data and replaces the user's doses and labs with it.
	// The stored weight is replaced only when the file carries one.
	Import(ctx context.Context, userID uuid.UUID, data []byte, passphrase string) (*transfer.ImportResult, error)
}

type transferServiceImpl struct {
	db         *sql.DB
	doses      store.DoseStore
	labs       store.LabStore
	profiles   store.ProfileStore
	simulation SimulationService
	sanitizer  *transfer.Sanitizer
	iterations int
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// TransferDeps groups the collaborators of NewTransferService.
type TransferDeps struct {
	DB         *sql.DB
	Doses      store.DoseStore
	Labs       store.LabStore
	Profiles   store.ProfileStore
	Simulation SimulationService
	Sanitizer  *transfer.Sanitizer
	Iterations int
	Emitter    events.EventEmitter
}

// NewTransferService creates a new TransferService.
func NewTransferService(deps TransferDeps, logger *slog.Logger) (TransferService, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if deps.Doses == nil || deps.Labs == nil || deps.Profiles == nil {
		return nil, fmt.Errorf("stores cannot be nil")
	}
	if deps.Simulation == nil {
		return nil, fmt.Errorf("simulation service cannot be nil")
	}
	if deps.Sanitizer == nil {
		return nil, fmt.Errorf("sanitizer cannot be nil")
	}
	if deps.Iterations <= 0 {
		deps.Iterations = transfer.DefaultIterations
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &transferServiceImpl{
		db:         deps.DB,
		doses:      deps.Doses,
		labs:       deps.Labs,
		profiles:   deps.Profiles,
		simulation: deps.Simulation,
		sanitizer:  deps.Sanitizer,
		iterations: deps.Iterations,
		emitter:    deps.Emitter,
		logger:     logger.With("component", "transfer_service"),
	}, nil
}

func (s *transferServiceImpl) payload(ctx context.Context, userID uuid.UUID) (*transfer.Payload, error) {
	evts, err := s.doses.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("export", "failed to load dose events", err)
	}
	labs, err := s.labs.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("export", "failed to load lab results", err)
	}

	weight := 0.0
	profile, err := s.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		weight = profile.WeightKG
	case !store.IsNotFoundError(err):
		return nil, NewServiceError("export", "failed to load profile", err)
	}

	return transfer.NewPayload(weight, evts, labs), nil
}

func (s *transferServiceImpl) Export(ctx context.Context, userID uuid.UUID, passphrase string) ([]byte, error) {
	p, err := s.payload(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := transfer.Export(p, passphrase, s.iterations)
	if err != nil {
		return nil, NewServiceError("export", "failed to encode export", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("data exported",
		"user_id", userID,
		"events", len(p.Events),
		"labs", len(p.LabResults),
		"encrypted", passphrase != "")
	return data, nil
}

func (s *transferServiceImpl) ExportWorkbook(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	snap, err := s.simulation.Snapshot(ctx, userID)
	if err != nil {
		return err
	}
	p := transfer.NewPayload(snap.WeightKG, snap.Events, snap.Labs)
	if err := transfer.WriteWorkbook(w, p, snap.Sim, snap.Cal); err != nil {
		return NewServiceError("export_workbook", "failed to write workbook", err)
	}
	return nil
}

func (s *transferServiceImpl) Import(
	ctx context.Context,
	userID uuid.UUID,
	data []byte,
	passphrase string,
) (*transfer.ImportResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.sanitizer.Import(data, passphrase, userID)
	if err != nil {
		return nil, NewServiceError("import", "could not read import file", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		doses := s.doses.WithTx(tx)
		labs := s.labs.WithTx(tx)

		if err := doses.DeleteAllByUser(ctx, userID); err != nil {
			return err
		}
		if err := labs.DeleteAllByUser(ctx, userID); err != nil {
			return err
		}
		if err := doses.CreateBatch(ctx, result.Payload.Events); err != nil {
			return err
		}
		if err := labs.CreateBatch(ctx, result.Payload.LabResults); err != nil {
			return err
		}
		if result.Payload.WeightKG != nil {
			return s.profiles.WithTx(tx).Upsert(ctx, &domain.Profile{
				UserID:    userID,
				WeightKG:  *result.Payload.WeightKG,
				UpdatedAt: time.Now().UTC(),
			})
		}
		return nil
	})
	if err != nil {
		log.Error("import transaction failed",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError("import", "failed to replace stored data", err)
	}

	log.Info("data imported",
		"user_id", userID,
		"accepted_events", result.AcceptedEvents,
		"rejected_events", result.RejectedEvents,
		"accepted_labs", result.AcceptedLabs,
		"rejected_labs", result.RejectedLabs,
		"encrypted", result.Encrypted)
	notifyChanged(ctx, s.emitter, log, events.TypeDataImported, userID)
	return result, nil
}
