package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
	}{
		{"nil error", nil, false, false},
		{"generic error", errors.New("some error"), false, false},
		{"ErrNotFound", ErrNotFound, true, false},
		{"wrapped ErrDoseNotFound", fmt.Errorf("get dose: %w", ErrDoseNotFound), true, false},
		{"ErrLabNotFound", ErrLabNotFound, true, false},
		{"ErrProfileNotFound", ErrProfileNotFound, true, false},
		{"ErrBackupNotFound", ErrBackupNotFound, true, false},
		{"ErrUserNotFound", ErrUserNotFound, true, false},
		{"ErrEmailExists", ErrEmailExists, false, true},
		{"wrapped ErrDoseExists", fmt.Errorf("create: %w", ErrDoseExists), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, errors.Is(tt.err, ErrDuplicate))
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("constraint violated")
	err := NewStoreError("dose_event", "create", "invalid data", cause)

	assert.Equal(t, "create operation on dose_event failed: invalid data: constraint violated", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("backup", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on backup failed: no rows", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &storeErr))
	assert.Equal(t, "dose_event", storeErr.Entity)
}
