package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestNewLabResult(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		value   float64
		unit    LabUnit
		wantErr error
	}{
		{name: "pg/ml", value: 150, unit: LabUnitPgPerML},
		{name: "pmol/l", value: 550, unit: LabUnitPmolPerL},
		{name: "negative", value: -1, unit: LabUnitPgPerML, wantErr: ErrInvalidConcentration},
		{name: "nan", value: math.NaN(), unit: LabUnitPgPerML, wantErr: ErrInvalidConcentration},
		{name: "unknown unit", value: 1, unit: "ng/dl", wantErr: ErrInvalidLabUnit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLabResult(uuid.New(), 480000, tc.value, tc.unit)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLabResultUnmarshalRejectsUnknownUnit(t *testing.T) {
	t.Parallel()

	var lab LabResult
	err := json.Unmarshal([]byte(`{"timeH":1,"concValue":100,"unit":"mg/l"}`), &lab)
	if !errors.Is(err, ErrInvalidLabUnit) {
		t.Fatalf("Expected ErrInvalidLabUnit, got %v", err)
	}
}

func TestValidateWeight(t *testing.T) {
	t.Parallel()

	for _, kg := range []float64{0, -70, math.NaN(), math.Inf(1), MaxWeightKG + 1} {
		if err := ValidateWeight(kg); !errors.Is(err, ErrInvalidWeight) {
			t.Errorf("weight %v: expected ErrInvalidWeight, got %v", kg, err)
		}
	}
	if err := ValidateWeight(70); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestNewBackup(t *testing.T) {
	t.Parallel()

	b, err := NewBackup(uuid.New(), json.RawMessage(`{"encrypted":true,"iv":"a","salt":"b","data":"c"}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if b.SizeBytes == 0 {
		t.Error("Expected size to be recorded")
	}

	if _, err := NewBackup(uuid.New(), json.RawMessage(`not json`)); !errors.Is(err, ErrEmptyEnvelope) {
		t.Errorf("Expected ErrEmptyEnvelope, got %v", err)
	}
}
