// Package config loads the process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/shapeset"
	"github.com/hupe1980/shapeset/persistence"
)

// ErrInvalid is returned for malformed environment values.
var ErrInvalid = errors.New("invalid environment")

// Backend names.
const (
	BackendLocal = "local"
	BackendMinIO = "minio"
	BackendS3    = "s3"
)

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Config holds the process configuration.
type Config struct {
	Addr      string
	Root      string // local storage root
	Backend   string
	Bucket    string
	Prefix    string
	MinIO     MinIOConfig
	LogLevel  slog.Level
	LogFormat string // "text" or "json"

	Service shapeset.Config
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration using getenv. Unset variables take defaults.
func LoadFrom(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Addr:      env("SHAPESET_ADDR", ":5000"),
		Root:      env("SHAPESET_ROOT", "./data"),
		Backend:   strings.ToLower(env("SHAPESET_BACKEND", BackendLocal)),
		Bucket:    env("SHAPESET_BUCKET", ""),
		Prefix:    env("SHAPESET_PREFIX", ""),
		LogFormat: strings.ToLower(env("SHAPESET_LOG_FORMAT", "text")),
		MinIO: MinIOConfig{
			Endpoint:  env("SHAPESET_MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: env("SHAPESET_MINIO_ACCESS_KEY", ""),
			SecretKey: env("SHAPESET_MINIO_SECRET_KEY", ""),
		},
		Service: shapeset.DefaultConfig(),
	}

	var err error
	if cfg.MinIO.Secure, err = parseBool("SHAPESET_MINIO_SECURE", env("SHAPESET_MINIO_SECURE", "false")); err != nil {
		return nil, err
	}

	if labels := env("SHAPESET_LABELS", ""); labels != "" {
		cfg.Service.Labels = cfg.Service.Labels[:0]
		for _, l := range strings.Split(labels, ",") {
			if l = strings.TrimSpace(l); l != "" {
				cfg.Service.Labels = append(cfg.Service.Labels, l)
			}
		}
	}

	if cfg.Service.Compression, err = persistence.ParseCompression(env("SHAPESET_COMPRESSION", "none")); err != nil {
		return nil, fmt.Errorf("%w: SHAPESET_COMPRESSION: %w", ErrInvalid, err)
	}
	if cfg.Service.Workers, err = parseInt("SHAPESET_WORKERS", env("SHAPESET_WORKERS", "0")); err != nil {
		return nil, err
	}
	limit, err := parseInt("SHAPESET_MEMORY_LIMIT_BYTES", env("SHAPESET_MEMORY_LIMIT_BYTES", "0"))
	if err != nil {
		return nil, err
	}
	cfg.Service.MemoryLimitBytes = int64(limit)

	cacheBytes, err := parseInt("SHAPESET_ARTIFACT_CACHE_BYTES", env("SHAPESET_ARTIFACT_CACHE_BYTES", "0"))
	if err != nil {
		return nil, err
	}
	cfg.Service.ArtifactCacheBytes = int64(cacheBytes)

	rate, err := strconv.ParseFloat(env("SHAPESET_INGEST_RATE", "0"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: SHAPESET_INGEST_RATE: %w", ErrInvalid, err)
	}
	cfg.Service.IngestPerSecond = rate

	if err := cfg.LogLevel.UnmarshalText([]byte(env("SHAPESET_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("%w: SHAPESET_LOG_LEVEL: %w", ErrInvalid, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendLocal:
	case BackendMinIO, BackendS3:
		if c.Bucket == "" {
			return fmt.Errorf("%w: SHAPESET_BUCKET is required for backend %q", ErrInvalid, c.Backend)
		}
	default:
		return fmt.Errorf("%w: SHAPESET_BACKEND %q", ErrInvalid, c.Backend)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: SHAPESET_LOG_FORMAT %q", ErrInvalid, c.LogFormat)
	}

	if err := c.Service.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func parseInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}
	return n, nil
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}
	return b, nil
}
