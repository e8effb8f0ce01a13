package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/mocks"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoseHandler_ListDoses(t *testing.T) {
	userID := uuid.New()

	t.Run("empty history is an empty array", func(t *testing.T) {
		h := NewDoseHandler(&mocks.MockDoseService{}, testLogger())
		rr := serve(t, http.MethodGet, "/api/doses", "/api/doses", h.ListDoses, userID, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("events use the wire shape", func(t *testing.T) {
		event, err := domain.NewDoseEvent(userID, domain.RouteSublingual, domain.EsterE2, 10, 2,
			domain.SublingualCustom{Theta: 0.2})
		require.NoError(t, err)
		h := NewDoseHandler(&mocks.MockDoseService{Events: []domain.DoseEvent{*event}}, testLogger())

		rr := serve(t, http.MethodGet, "/api/doses", "/api/doses", h.ListDoses, userID, "")
		require.Equal(t, http.StatusOK, rr.Code)

		var got []map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "sublingual", got[0]["route"])
		assert.Equal(t, map[string]interface{}{"sublingualTheta": 0.2}, got[0]["extras"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := NewDoseHandler(&mocks.MockDoseService{}, testLogger())
		rr := serve(t, http.MethodGet, "/api/doses", "/api/doses", h.ListDoses, uuid.Nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestDoseHandler_CreateDose(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		check      func(t *testing.T, input service.DoseInput)
	}{
		{
			name:       "injection",
			body:       `{"route":"injection","ester":"EV","timeH":480000,"doseMG":5}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, input service.DoseInput) {
				assert.Equal(t, domain.RouteInjection, input.Route)
				assert.Equal(t, domain.EsterEV, input.Ester)
				assert.Equal(t, 480000.0, input.TimeH)
				assert.Equal(t, domain.NoModifiers{}, input.Modifiers)
			},
		},
		{
			name:       "patch with release rate",
			body:       `{"route":"patchApply","ester":"E2","timeH":1,"doseMG":0,"extras":{"releaseRateUGPerDay":100}}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, input service.DoseInput) {
				assert.Equal(t, domain.PatchRate{UGPerDay: 100}, input.Modifiers)
			},
		},
		{
			name:       "unknown route",
			body:       `{"route":"nasal","ester":"E2","timeH":1,"doseMG":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown ester",
			body:       `{"route":"oral","ester":"E3","timeH":1,"doseMG":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "extras for another route",
			body:       `{"route":"oral","ester":"E2","timeH":1,"doseMG":1,"extras":{"gelSite":1}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "tier and theta together",
			body:       `{"route":"sublingual","ester":"E2","timeH":1,"doseMG":1,"extras":{"sublingualTier":1,"sublingualTheta":0.2}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing time",
			body:       `{"route":"oral","ester":"E2","doseMG":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative dose",
			body:       `{"route":"oral","ester":"E2","timeH":1,"doseMG":-1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unmodeled pairing",
			body:       `{"route":"oral","ester":"EC","timeH":1,"doseMG":1}`,
			serviceErr: &pk.ModelError{Route: domain.RouteOral, Ester: domain.EsterEC},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured service.DoseInput
			doses := &mocks.MockDoseService{
				CreateFn: func(_ context.Context, uid uuid.UUID, input service.DoseInput) (*domain.DoseEvent, error) {
					assert.Equal(t, userID, uid)
					captured = input
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					return domain.NewDoseEvent(uid, input.Route, input.Ester, input.TimeH, input.DoseMG, input.Modifiers)
				},
			}
			h := NewDoseHandler(doses, testLogger())

			rr := serve(t, http.MethodPost, "/api/doses", "/api/doses", h.CreateDose, userID, tc.body)
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			if tc.check != nil {
				tc.check(t, captured)
			}
		})
	}
}

func TestDoseHandler_UpdateAndDelete(t *testing.T) {
	userID := uuid.New()
	doseID := uuid.New()
	body := `{"route":"oral","ester":"E2","timeH":2,"doseMG":2}`

	t.Run("update passes the path id", func(t *testing.T) {
		doses := &mocks.MockDoseService{
			UpdateFn: func(_ context.Context, uid, id uuid.UUID, input service.DoseInput) (*domain.DoseEvent, error) {
				assert.Equal(t, doseID, id)
				e, err := domain.NewDoseEvent(uid, input.Route, input.Ester, input.TimeH, input.DoseMG, input.Modifiers)
				if err == nil {
					e.ID = id
				}
				return e, err
			},
		}
		h := NewDoseHandler(doses, testLogger())

		rr := serve(t, http.MethodPut, "/api/doses/{id}", "/api/doses/"+doseID.String(), h.UpdateDose, userID, body)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), doseID.String())
	})

	t.Run("update of someone else's event", func(t *testing.T) {
		h := NewDoseHandler(&mocks.MockDoseService{DefaultError: service.ErrNotOwned}, testLogger())
		rr := serve(t, http.MethodPut, "/api/doses/{id}", "/api/doses/"+doseID.String(), h.UpdateDose, userID, body)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("bad path id", func(t *testing.T) {
		h := NewDoseHandler(&mocks.MockDoseService{}, testLogger())
		rr := serve(t, http.MethodDelete, "/api/doses/{id}", "/api/doses/not-a-uuid", h.DeleteDose, userID, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		h := NewDoseHandler(&mocks.MockDoseService{}, testLogger())
		rr := serve(t, http.MethodDelete, "/api/doses/{id}", "/api/doses/"+doseID.String(), h.DeleteDose, userID, "")
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		h := NewDoseHandler(&mocks.MockDoseService{DefaultError: store.ErrDoseNotFound}, testLogger())
		rr := serve(t, http.MethodDelete, "/api/doses/{id}", "/api/doses/"+doseID.String(), h.DeleteDose, userID, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
