package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	err := c.AcquireMemory(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	err = c.AcquireMemory(40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Limit exceeded
	err = c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	err = c.AcquireMemory(20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_DecodeSlots(t *testing.T) {
	c := NewController(Config{MaxDecodeWorkers: 1})
	assert.Equal(t, 1, c.DecodeWorkers())

	ctx := context.Background()
	require.NoError(t, c.AcquireDecode(ctx))

	// Second acquire blocks until the deadline.
	tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireDecode(tctx), context.DeadlineExceeded)

	c.ReleaseDecode()
	require.NoError(t, c.AcquireDecode(ctx))
	c.ReleaseDecode()
}

func TestController_IngestRate(t *testing.T) {
	c := NewController(Config{IngestPerSecond: 0.001, IngestBurst: 2})

	assert.True(t, c.AllowIngest())
	assert.True(t, c.AllowIngest())
	assert.False(t, c.AllowIngest())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.AcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(0), c.MemoryUsage())
	require.NoError(t, c.AcquireDecode(context.Background()))
	c.ReleaseDecode()
	assert.True(t, c.AllowIngest())
	assert.Positive(t, c.DecodeWorkers())
}
