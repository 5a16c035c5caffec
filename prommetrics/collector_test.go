package prommetrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shapeset"
	"github.com/hupe1980/shapeset/blobstore"
	"github.com/hupe1980/shapeset/testutil"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	boom := errors.New("boom")
	c.RecordIngest(100, time.Millisecond, nil)
	c.RecordIngest(50, time.Millisecond, boom)
	c.RecordBuild(3, time.Millisecond, nil)
	c.RecordBuild(0, time.Millisecond, boom)
	c.RecordSave(512, time.Millisecond, nil)
	c.RecordLoad(time.Millisecond, nil)

	assert.Equal(t, 1.0, promtest.ToFloat64(c.ops.WithLabelValues("ingest", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.ops.WithLabelValues("ingest", "error")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.ops.WithLabelValues("build", "error")))
	assert.Equal(t, 100.0, promtest.ToFloat64(c.ingestBytes))
	assert.Equal(t, 3.0, promtest.ToFloat64(c.buildRows))
	assert.Equal(t, 512.0, promtest.ToFloat64(c.savedBytes))

	expected := `
# HELP shapeset_saved_bytes_total Total bytes of persisted dataset artifacts.
# TYPE shapeset_saved_bytes_total counter
shapeset_saved_bytes_total 512
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "shapeset_saved_bytes_total"))
	assert.Equal(t, 6, promtest.CollectAndCount(c.opLatency))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
	assert.Panics(t, func() { MustNew(reg) })
}

func TestCollector_WithService(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := MustNew(reg)

	svc, err := shapeset.New(shapeset.DefaultConfig(), blobstore.NewMemoryStore(), shapeset.WithMetricsCollector(c))
	require.NoError(t, err)

	ctx := context.Background()
	rng := testutil.NewRNG(7)
	for _, label := range []string{"estrella", "rombo"} {
		_, err := svc.Ingest(ctx, label, rng.DrawingPNG(6, 6))
		require.NoError(t, err)
	}
	_, err = svc.Build(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2.0, promtest.ToFloat64(c.ops.WithLabelValues("ingest", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.ops.WithLabelValues("build", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(c.ops.WithLabelValues("save", "success")))
	assert.Equal(t, 2.0, promtest.ToFloat64(c.buildRows))
	assert.Greater(t, promtest.ToFloat64(c.savedBytes), 0.0)
}
