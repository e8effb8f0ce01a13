package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

const (
	doseEntity  = "dose_event"
	doseColumns = `id, user_id, route, ester, time_h, dose_mg, extras, created_at`
)

// PostgresDoseStore implements store.DoseStore. Route modifiers are kept in
// the extras jsonb column using the same keys as the export format.
type PostgresDoseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDoseStore creates a dose store over a connection or transaction.
func NewPostgresDoseStore(db store.DBTX, logger *slog.Logger) *PostgresDoseStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDoseStore{
		db:     db,
		logger: logger.With(slog.String("component", "dose_store")),
	}
}

var _ store.DoseStore = (*PostgresDoseStore)(nil)

func encodeExtras(mods domain.RouteModifiers) ([]byte, error) {
	extras := domain.ExtrasFromModifiers(mods)
	if extras == nil {
		extras = map[string]float64{}
	}
	return json.Marshal(extras)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDose(row rowScanner) (*domain.DoseEvent, error) {
	var (
		e      domain.DoseEvent
		route  string
		ester  string
		extras []byte
	)
	if err := row.Scan(&e.ID, &e.UserID, &route, &ester, &e.TimeH, &e.DoseMG, &extras, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Route = domain.Route(route)
	e.Ester = domain.Ester(ester)

	var raw map[string]float64
	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &raw); err != nil {
			return nil, fmt.Errorf("decode extras for dose %s: %w", e.ID, err)
		}
	}
	mods, err := domain.ModifiersFromExtras(e.Route, raw)
	if err != nil {
		return nil, fmt.Errorf("decode extras for dose %s: %w", e.ID, err)
	}
	e.Modifiers = mods
	return &e, nil
}

// Create implements store.DoseStore.Create.
func (s *PostgresDoseStore) Create(ctx context.Context, event *domain.DoseEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("dose validation failed during create",
			slog.String("error", err.Error()),
			slog.String("dose_id", event.ID.String()))
		return err
	}
	extras, err := encodeExtras(event.Modifiers)
	if err != nil {
		return fmt.Errorf("encode extras: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dose_events (`+doseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.UserID, string(event.Route), string(event.Ester),
		event.TimeH, event.DoseMG, extras, event.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrDoseExists
		}
		log.Error("failed to create dose event",
			slog.String("error", err.Error()),
			slog.String("dose_id", event.ID.String()))
		return wrapError(doseEntity, "create", err)
	}

	log.Debug("dose event created",
		slog.String("dose_id", event.ID.String()),
		slog.String("route", string(event.Route)),
		slog.String("ester", string(event.Ester)))
	return nil
}

// CreateBatch implements store.DoseStore.CreateBatch.
func (s *PostgresDoseStore) CreateBatch(ctx context.Context, events []domain.DoseEvent) error {
	for i := range events {
		if err := s.Create(ctx, &events[i]); err != nil {
			return fmt.Errorf("dose %d: %w", i, err)
		}
	}
	return nil
}

// GetByID implements store.DoseStore.GetByID.
func (s *PostgresDoseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DoseEvent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+doseColumns+` FROM dose_events WHERE id = $1`, id)
	event, err := scanDose(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDoseNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get dose event",
			slog.String("error", err.Error()),
			slog.String("dose_id", id.String()))
		return nil, wrapError(doseEntity, "get", err)
	}
	return event, nil
}

// ListByUser implements store.DoseStore.ListByUser.
func (s *PostgresDoseStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+doseColumns+`
		FROM dose_events
		WHERE user_id = $1
		ORDER BY time_h ASC, created_at ASC
	`, userID)
	if err != nil {
		log.Error("failed to list dose events", slog.String("error", err.Error()))
		return nil, wrapError(doseEntity, "list", err)
	}
	defer func() { _ = rows.Close() }()

	events := []domain.DoseEvent{}
	for rows.Next() {
		event, err := scanDose(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(doseEntity, "list", err)
	}

	log.Debug("listed dose events", slog.Int("count", len(events)))
	return events, nil
}

// Update implements store.DoseStore.Update.
func (s *PostgresDoseStore) Update(ctx context.Context, event *domain.DoseEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		return err
	}
	extras, err := encodeExtras(event.Modifiers)
	if err != nil {
		return fmt.Errorf("encode extras: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE dose_events
		SET route = $2, ester = $3, time_h = $4, dose_mg = $5, extras = $6
		WHERE id = $1
	`, event.ID, string(event.Route), string(event.Ester), event.TimeH, event.DoseMG, extras)
	if err != nil {
		log.Error("failed to update dose event",
			slog.String("error", err.Error()),
			slog.String("dose_id", event.ID.String()))
		return wrapError(doseEntity, "update", err)
	}
	return CheckRowsAffected(result, store.ErrDoseNotFound)
}

// Delete implements store.DoseStore.Delete.
func (s *PostgresDoseStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dose_events WHERE id = $1`, id)
	if err != nil {
		return wrapError(doseEntity, "delete", err)
	}
	return CheckRowsAffected(result, store.ErrDoseNotFound)
}

// DeleteAllByUser implements store.DoseStore.DeleteAllByUser.
func (s *PostgresDoseStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dose_events WHERE user_id = $1`, userID)
	if err != nil {
		return wrapError(doseEntity, "delete_all", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("cleared dose history", slog.Int64("deleted", n))
	}
	return nil
}

// WithTx implements store.DoseStore.WithTx.
func (s *PostgresDoseStore) WithTx(tx *sql.Tx) store.DoseStore {
	return &PostgresDoseStore{db: tx, logger: s.logger}
}
