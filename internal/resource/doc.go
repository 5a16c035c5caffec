// Package resource implements the Controller for global limits.
//
// The Controller manages three resource types:
//
//   - Memory: bytes reserved for dataset matrices (non-blocking, fail-fast)
//   - Concurrency: images decoded at once across all builds
//   - Ingest: accepted uploads per second (token bucket)
//
// # Memory Management
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded
// immediately if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//
//	if err := rc.AcquireMemory(rows * cols * 8); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(rows * cols * 8)
//
// # Decode Slots
//
//	if err := rc.AcquireDecode(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseDecode()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
