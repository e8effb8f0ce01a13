package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLabService(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("create valid lab", func(t *testing.T) {
		labs := new(MockLabStore)
		emitter := &recordingEmitter{}
		svc, err := service.NewLabService(labs, emitter, quietLogger())
		require.NoError(t, err)

		labs.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.LabResult) bool {
			return l.UserID == userID && l.Unit == domain.LabUnitPmolPerL && l.ConcValue == 550
		})).Return(nil)

		lab, err := svc.Create(ctx, userID, 480000, 550, domain.LabUnitPmolPerL)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, lab.ID)
		assert.Equal(t, []string{"labs.changed"}, emitter.types())
		labs.AssertExpectations(t)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		labs := new(MockLabStore)
		svc, err := service.NewLabService(labs, &recordingEmitter{}, quietLogger())
		require.NoError(t, err)

		_, err = svc.Create(ctx, userID, 480000, 120, domain.LabUnit("ng/dl"))
		assert.ErrorIs(t, err, domain.ErrInvalidLabUnit)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		svc, err := service.NewLabService(new(MockLabStore), nil, quietLogger())
		require.NoError(t, err)

		_, err = svc.Create(ctx, userID, 480000, -1, domain.LabUnitPgPerML)
		assert.ErrorIs(t, err, domain.ErrInvalidConcentration)
	})

	t.Run("delete missing lab", func(t *testing.T) {
		labs := new(MockLabStore)
		emitter := &recordingEmitter{}
		svc, err := service.NewLabService(labs, emitter, quietLogger())
		require.NoError(t, err)
		id := uuid.New()
		labs.On("Delete", mock.Anything, userID, id).Return(store.ErrLabNotFound)

		err = svc.Delete(ctx, userID, id)
		assert.ErrorIs(t, err, store.ErrLabNotFound)
		assert.Empty(t, emitter.types())
	})

	t.Run("list", func(t *testing.T) {
		labs := new(MockLabStore)
		svc, err := service.NewLabService(labs, nil, quietLogger())
		require.NoError(t, err)
		want := []domain.LabResult{{ID: uuid.New(), TimeH: 1, ConcValue: 100, Unit: domain.LabUnitPgPerML}}
		labs.On("ListByUser", mock.Anything, userID).Return(want, nil)

		got, err := svc.List(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
