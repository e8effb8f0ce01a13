package service_test

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/events"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockDoseStore mocks store.DoseStore.
type MockDoseStore struct {
	mock.Mock
}

func (m *MockDoseStore) Create(ctx context.Context, event *domain.DoseEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockDoseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DoseEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DoseEvent), args.Error(1)
}

func (m *MockDoseStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DoseEvent), args.Error(1)
}

func (m *MockDoseStore) Update(ctx context.Context, event *domain.DoseEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockDoseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDoseStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockDoseStore) CreateBatch(ctx context.Context, evts []domain.DoseEvent) error {
	return m.Called(ctx, evts).Error(0)
}

func (m *MockDoseStore) WithTx(*sql.Tx) store.DoseStore {
	return m
}

// MockLabStore mocks store.LabStore.
type MockLabStore struct {
	mock.Mock
}

func (m *MockLabStore) Create(ctx context.Context, lab *domain.LabResult) error {
	return m.Called(ctx, lab).Error(0)
}

func (m *MockLabStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LabResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LabResult), args.Error(1)
}

func (m *MockLabStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockLabStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockLabStore) CreateBatch(ctx context.Context, labs []domain.LabResult) error {
	return m.Called(ctx, labs).Error(0)
}

func (m *MockLabStore) WithTx(*sql.Tx) store.LabStore {
	return m
}

// MockProfileStore mocks store.ProfileStore.
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileStore) WithTx(*sql.Tx) store.ProfileStore {
	return m
}

// MockBackupStore mocks store.BackupStore.
type MockBackupStore struct {
	mock.Mock
}

func (m *MockBackupStore) Create(ctx context.Context, backup *domain.Backup) error {
	return m.Called(ctx, backup).Error(0)
}

func (m *MockBackupStore) List(ctx context.Context, userID uuid.UUID) ([]domain.Backup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Backup), args.Error(1)
}

func (m *MockBackupStore) Latest(ctx context.Context, userID uuid.UUID) (*domain.Backup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Backup), args.Error(1)
}

func (m *MockBackupStore) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Backup, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Backup), args.Error(1)
}

func (m *MockBackupStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockBackupStore) Prune(ctx context.Context, userID uuid.UUID, keep int) (int64, error) {
	args := m.Called(ctx, userID, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBackupStore) WithTx(*sql.Tx) store.BackupStore {
	return m
}

// MockUserStore mocks store.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.DataChangedEvent
}

func (r *recordingEmitter) EmitEvent(_ context.Context, event *events.DataChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
