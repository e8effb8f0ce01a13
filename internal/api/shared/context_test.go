package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	id := GetTraceID(traced)
	assert.Len(t, id, 2*TraceIDLength)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)

	assert.Empty(t, GetTraceID(ctx), "parent context must be unchanged")
}

func TestGetTraceID_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestGenerateTraceID_Unique(t *testing.T) {
	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		id := generateTraceID()
		assert.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}
