package resource

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for dataset matrices held at once.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxDecodeWorkers is the maximum number of images decoded concurrently,
	// across all builds. If 0, defaults to GOMAXPROCS.
	MaxDecodeWorkers int64

	// IngestPerSecond limits accepted uploads per second.
	// If 0, unlimited.
	IngestPerSecond float64

	// IngestBurst is the number of uploads accepted in a burst.
	// If 0, defaults to max(1, IngestPerSecond).
	IngestBurst int
}

// Controller manages global resources (memory, concurrency, ingest rate).
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Concurrency
	decodeSem *semaphore.Weighted

	// Ingest
	ingestLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxDecodeWorkers <= 0 {
		cfg.MaxDecodeWorkers = int64(runtime.GOMAXPROCS(0))
	}

	c := &Controller{
		cfg:       cfg,
		decodeSem: semaphore.NewWeighted(cfg.MaxDecodeWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IngestPerSecond > 0 {
		burst := cfg.IngestBurst
		if burst <= 0 {
			burst = max(1, int(cfg.IngestPerSecond))
		}
		c.ingestLimiter = rate.NewLimiter(rate.Limit(cfg.IngestPerSecond), burst)
	}

	return c
}

// AcquireMemory attempts to reserve memory.
// Returns ErrMemoryLimitExceeded if limit would be exceeded.
// Non-blocking - callers control retry/backoff policy.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil {
		return nil
	}
	if bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory releases reserved memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// DecodeWorkers returns the configured decode concurrency.
func (c *Controller) DecodeWorkers() int {
	if c == nil {
		return runtime.GOMAXPROCS(0)
	}
	return int(c.cfg.MaxDecodeWorkers)
}

// AcquireDecode reserves a decode slot. Blocks if all slots are busy.
func (c *Controller) AcquireDecode(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.decodeSem.Acquire(ctx, 1)
}

// ReleaseDecode releases a decode slot.
func (c *Controller) ReleaseDecode() {
	if c == nil {
		return
	}
	c.decodeSem.Release(1)
}

// AllowIngest reports whether one more upload may be accepted now.
func (c *Controller) AllowIngest() bool {
	if c == nil || c.ingestLimiter == nil {
		return true
	}
	return c.ingestLimiter.AllowN(time.Now(), 1)
}
