package httpapi

import (
	"context"
	_ "embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hupe1980/shapeset/codec"
	"github.com/hupe1980/shapeset/dataset"
	"github.com/hupe1980/shapeset/persistence"
)

// DefaultMaxUploadBytes bounds the request body of POST /upload.
const DefaultMaxUploadBytes = 8 << 20

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Service is the subset of *shapeset.Service used by the handlers.
type Service interface {
	Labels() []string
	AllowIngest() bool
	Ingest(ctx context.Context, label string, raw []byte) (string, error)
	Build(ctx context.Context) (*dataset.Dataset, error)
	Counts(ctx context.Context) (map[string]int, error)
	Artifact(ctx context.Context, kind persistence.Kind) ([]byte, error)
}

// Server routes HTTP requests to a Service.
type Server struct {
	svc            Service
	logger         *slog.Logger
	codec          codec.Codec
	maxUploadBytes int64
	mux            *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxUploadBytes overrides DefaultMaxUploadBytes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithHandler mounts an additional handler, e.g. a metrics endpoint.
func WithHandler(pattern string, h http.Handler) Option {
	return func(s *Server) {
		s.mux.Handle(pattern, h)
	}
}

// New creates a Server for svc.
func New(svc Service, optFns ...Option) *Server {
	s := &Server{
		svc:            svc,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		codec:          codec.Default,
		maxUploadBytes: DefaultMaxUploadBytes,
		mux:            http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("GET /prepare", s.handlePrepare)
	s.mux.HandleFunc("GET /counts", s.handleCounts)
	s.mux.HandleFunc("GET /dataset/{kind}", s.handleArtifact)

	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	s.mux.ServeHTTP(rec, r)

	s.logger.DebugContext(r.Context(), "request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
