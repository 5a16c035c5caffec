// Package prommetrics exports service metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/shapeset"
)

// Namespace prefixes every metric name.
const Namespace = "shapeset"

// Collector implements shapeset.MetricsCollector on top of Prometheus
// histograms and counters.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	ingestBytes prometheus.Counter
	buildRows   prometheus.Gauge
	savedBytes  prometheus.Counter
	ops         *prometheus.CounterVec
}

var _ shapeset.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ingestBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ingested_bytes_total",
			Help:      "Total bytes of accepted samples.",
		}),
		buildRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "dataset_rows",
			Help:      "Number of rows in the last successfully built dataset.",
		}),
		savedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "saved_bytes_total",
			Help:      "Total bytes of persisted dataset artifacts.",
		}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total service operations.",
		}, []string{"op", "status"}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.ingestBytes, c.buildRows, c.savedBytes, c.ops} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics if registration fails.
func MustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordIngest implements shapeset.MetricsCollector.
func (c *Collector) RecordIngest(size int, d time.Duration, err error) {
	c.observe("ingest", d, err)
	if err == nil {
		c.ingestBytes.Add(float64(size))
	}
}

// RecordBuild implements shapeset.MetricsCollector.
func (c *Collector) RecordBuild(rows int, d time.Duration, err error) {
	c.observe("build", d, err)
	if err == nil {
		c.buildRows.Set(float64(rows))
	}
}

// RecordSave implements shapeset.MetricsCollector.
func (c *Collector) RecordSave(bytes int, d time.Duration, err error) {
	c.observe("save", d, err)
	if err == nil {
		c.savedBytes.Add(float64(bytes))
	}
}

// RecordLoad implements shapeset.MetricsCollector.
func (c *Collector) RecordLoad(d time.Duration, err error) {
	c.observe("load", d, err)
}
