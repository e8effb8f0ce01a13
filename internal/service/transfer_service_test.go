package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testIterations = 1000

type transferFixture struct {
	userID   uuid.UUID
	sqlMock  sqlmock.Sqlmock
	doses    *MockDoseStore
	labs     *MockLabStore
	profiles *MockProfileStore
	emitter  *recordingEmitter
	svc      service.TransferService
}

func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &transferFixture{
		userID:   uuid.New(),
		sqlMock:  sqlMock,
		doses:    new(MockDoseStore),
		labs:     new(MockLabStore),
		profiles: new(MockProfileStore),
		emitter:  &recordingEmitter{},
	}

	model := pk.NewDefaultService()
	profiles, err := service.NewProfileService(f.profiles, 70, nil, quietLogger())
	require.NoError(t, err)
	sim, err := service.NewSimulationService(f.doses, f.labs, profiles, model, quietLogger(),
		service.WithClock(func() time.Time { return domain.HoursToTime(simStartH + 5) }))
	require.NoError(t, err)

	f.svc, err = service.NewTransferService(service.TransferDeps{
		DB:         db,
		Doses:      f.doses,
		Labs:       f.labs,
		Profiles:   f.profiles,
		Simulation: sim,
		Sanitizer:  transfer.NewSanitizer(model.Params(), testIterations),
		Iterations: testIterations,
		Emitter:    f.emitter,
	}, quietLogger())
	require.NoError(t, err)
	return f
}

func TestNewTransferService_RequiresDeps(t *testing.T) {
	_, err := service.NewTransferService(service.TransferDeps{}, nil)
	assert.Error(t, err)
}

func TestTransferService_Import(t *testing.T) {
	ctx := context.Background()

	file := []byte(`{
		"version": 1,
		"weight": 65,
		"events": [
			{"id": "legacy-1", "route": "injection", "ester": "EV", "timeH": 480000, "doseMG": 5},
			{"id": "legacy-2", "route": "not-a-real-route", "ester": "E2", "timeH": 480010, "doseMG": 1},
			{"route": "sublingual", "ester": "E2", "timeH": "480020", "doseMG": 2,
			 "extras": {"sublingualTier": 1, "sublingualTheta": 0.3}}
		],
		"labResults": [
			{"timeH": 480030, "concValue": 210, "unit": "pg/ml"},
			{"timeH": 480040, "concValue": "NaN", "unit": "pg/ml"}
		]
	}`)

	t.Run("replaces stored data in one transaction", func(t *testing.T) {
		f := newTransferFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()

		f.doses.On("DeleteAllByUser", mock.Anything, f.userID).Return(nil)
		f.labs.On("DeleteAllByUser", mock.Anything, f.userID).Return(nil)
		f.doses.On("CreateBatch", mock.Anything, mock.MatchedBy(func(evts []domain.DoseEvent) bool {
			return len(evts) == 2 &&
				evts[0].Route == domain.RouteInjection &&
				evts[1].Modifiers == domain.SublingualCustom{Theta: 0.3}
		})).Return(nil)
		f.labs.On("CreateBatch", mock.Anything, mock.MatchedBy(func(labs []domain.LabResult) bool {
			return len(labs) == 1 && labs[0].ConcValue == 210
		})).Return(nil)
		f.profiles.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
			return p.UserID == f.userID && p.WeightKG == 65
		})).Return(nil)

		result, err := f.svc.Import(ctx, f.userID, file, "")
		require.NoError(t, err)
		assert.Equal(t, 2, result.AcceptedEvents)
		assert.Equal(t, 1, result.RejectedEvents)
		assert.Equal(t, 1, result.AcceptedLabs)
		assert.Equal(t, 1, result.RejectedLabs)
		assert.Equal(t, []string{"data.imported"}, f.emitter.types())

		f.doses.AssertExpectations(t)
		f.labs.AssertExpectations(t)
		f.profiles.AssertExpectations(t)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("rolls back on store failure", func(t *testing.T) {
		f := newTransferFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectRollback()

		dbErr := errors.New("disk full")
		f.doses.On("DeleteAllByUser", mock.Anything, f.userID).Return(nil)
		f.labs.On("DeleteAllByUser", mock.Anything, f.userID).Return(nil)
		f.doses.On("CreateBatch", mock.Anything, mock.Anything).Return(dbErr)

		_, err := f.svc.Import(ctx, f.userID, file, "")
		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, f.emitter.types())
		f.labs.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		f.profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("malformed file never opens a transaction", func(t *testing.T) {
		f := newTransferFixture(t)

		_, err := f.svc.Import(ctx, f.userID, []byte(`"just a string"`), "")
		assert.ErrorIs(t, err, transfer.ErrMalformedPayload)
		assert.NoError(t, f.sqlMock.ExpectationsWereMet())
	})

	t.Run("bare event array keeps stored weight", func(t *testing.T) {
		f := newTransferFixture(t)
		f.sqlMock.ExpectBegin()
		f.sqlMock.ExpectCommit()

		f.doses.On("DeleteAllByUser", mock.Anything, f.userID).Return(nil)
		f.labs.On("DeleteAllByUser", mock.Anything, f.userID).Return(nil)
		f.doses.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
		f.labs.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.Import(ctx, f.userID,
			[]byte(`[{"route":"gel","ester":"E2","timeH":1,"doseMG":1,"extras":{"gelSite":3}}]`), "")
		require.NoError(t, err)
		assert.Equal(t, 1, result.AcceptedEvents)
		f.profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestTransferService_Export(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *transferFixture {
		f := newTransferFixture(t)
		f.doses.On("ListByUser", mock.Anything, f.userID).
			Return([]domain.DoseEvent{injection(f.userID, simStartH, 5)}, nil)
		f.labs.On("ListByUser", mock.Anything, f.userID).
			Return([]domain.LabResult{{ID: uuid.New(), TimeH: simStartH + 3, ConcValue: 300, Unit: domain.LabUnitPgPerML}}, nil)
		return f
	}

	t.Run("plain payload", func(t *testing.T) {
		f := setup(t)
		f.profiles.On("Get", mock.Anything, f.userID).Return(&domain.Profile{UserID: f.userID, WeightKG: 61}, nil)

		data, err := f.svc.Export(ctx, f.userID, "")
		require.NoError(t, err)

		var doc map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.JSONEq(t, `1`, string(doc["version"]))
		assert.JSONEq(t, `61`, string(doc["weight"]))
		assert.Contains(t, doc, "events")
		assert.Contains(t, doc, "labResults")
	})

	t.Run("encrypted envelope", func(t *testing.T) {
		f := setup(t)
		f.profiles.On("Get", mock.Anything, f.userID).Return(nil, store.ErrProfileNotFound)

		data, err := f.svc.Export(ctx, f.userID, "hunter2 hunter2")
		require.NoError(t, err)

		env, ok := transfer.ParseEnvelope(data)
		require.True(t, ok)
		plain, err := transfer.Decrypt(env, "hunter2 hunter2", testIterations)
		require.NoError(t, err)
		assert.NotContains(t, string(plain), `"weight"`, "missing profile exports no weight")
	})

	t.Run("workbook", func(t *testing.T) {
		f := setup(t)
		f.profiles.On("Get", mock.Anything, f.userID).Return(nil, store.ErrProfileNotFound)

		var buf bytes.Buffer
		require.NoError(t, f.svc.ExportWorkbook(ctx, f.userID, &buf))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip archive")
	})
}
