package shapeset

import (
	"github.com/hupe1980/shapeset/feature"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	extractor        feature.Extractor
}

// Option configures the collaborators of a Service.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithExtractor replaces the alpha channel feature extractor.
func WithExtractor(e feature.Extractor) Option {
	return func(o *options) {
		if e == nil {
			e = feature.AlphaExtractor{}
		}
		o.extractor = e
	}
}
