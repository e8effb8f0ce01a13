package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	id := uuid.MustParse("0b8a3c5e-7f7e-4b53-9d43-8f4c6a3a1b2c")
	assert.Equal(t, "hrt:sim:0b8a3c5e-7f7e-4b53-9d43-8f4c6a3a1b2c", Key(id))
}

func TestMemoryCache_GetSetInvalidate(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	user := uuid.New()

	_, err := c.Get(ctx, user)
	assert.ErrorIs(t, err, ErrMiss)

	payload := []byte(`{"timeH":[0,1]}`)
	require.NoError(t, c.Set(ctx, user, Entry{InputHash: "abc", Payload: payload}, 0))
	payload[0] = 'X'

	entry, err := c.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "abc", entry.InputHash)
	assert.Equal(t, `{"timeH":[0,1]}`, string(entry.Payload), "stored payload is a copy")

	_, err = c.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Invalidate(ctx, user))
	_, err = c.Get(ctx, user)
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, c.Set(ctx, user, Entry{InputHash: "h"}, time.Minute))

	clock = clock.Add(59 * time.Second)
	_, err := c.Get(ctx, user)
	assert.NoError(t, err)

	clock = clock.Add(time.Second)
	_, err = c.Get(ctx, user)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	users := make([]uuid.UUID, 8)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := users[i%len(users)]
			_ = c.Set(ctx, u, Entry{InputHash: "h"}, time.Minute)
			_, _ = c.Get(ctx, u)
			if i%5 == 0 {
				_ = c.Invalidate(ctx, u)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), len(users))
}

func TestNewRedisClientOptions(t *testing.T) {
	client := NewRedisClient(config.RedisConfig{Addr: "cache.internal:6380", Password: "pw", DB: 3})
	defer func() { _ = client.Close() }()

	opts := client.Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
}
