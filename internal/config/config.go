// Package config provides YAML and environment based configuration for
// ObjectSink sinks: backend selection, writer batching parameters, retry
// policy, and metrics settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/objectsink/objectsink/internal/storage/minio"
	"github.com/objectsink/objectsink/internal/storage/s3"
	"github.com/objectsink/objectsink/pkg/retry"
)

// Supported storage backends
const (
	BackendS3     = "s3"
	BackendMinio  = "minio"
	BackendMemory = "memory"
)

// Configuration represents the complete sink configuration
type Configuration struct {
	Storage StorageConfig `yaml:"storage"`
	Writer  WriterConfig  `yaml:"writer"`
	Retry   retry.Config  `yaml:"retry"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects and configures the object storage backend
type StorageConfig struct {
	Backend string       `yaml:"backend"` // "s3", "minio" or "memory"
	Bucket  string       `yaml:"bucket"`
	S3      s3.Config    `yaml:"s3"`
	Minio   minio.Config `yaml:"minio"`
}

// WriterConfig configures buffered writer batching
type WriterConfig struct {
	PartSize    string `yaml:"part_size"`   // human-readable size, e.g. "16MB"
	Concurrency int    `yaml:"concurrency"` // in-flight part uploads per writer
}

// MetricsConfig configures Prometheus instrumentation
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// NewDefault returns a configuration with sensible defaults
func NewDefault() *Configuration {
	return &Configuration{
		Storage: StorageConfig{
			Backend: BackendMemory,
			S3:      *s3.NewDefaultConfig(),
		},
		Writer: WriterConfig{
			PartSize:    "10MB",
			Concurrency: 8,
		},
		Retry: retry.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "objectsink",
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration overrides from environment variables
func (c *Configuration) LoadFromEnv() error {
	// Storage settings
	if val := os.Getenv("OBJECTSINK_BACKEND"); val != "" {
		c.Storage.Backend = val
	}
	if val := os.Getenv("OBJECTSINK_BUCKET"); val != "" {
		c.Storage.Bucket = val
	}
	if val := os.Getenv("OBJECTSINK_S3_REGION"); val != "" {
		c.Storage.S3.Region = val
	}
	if val := os.Getenv("OBJECTSINK_S3_ENDPOINT"); val != "" {
		c.Storage.S3.Endpoint = val
	}
	if val := os.Getenv("OBJECTSINK_MINIO_ENDPOINT"); val != "" {
		c.Storage.Minio.Endpoint = val
	}

	// Writer settings
	if val := os.Getenv("OBJECTSINK_PART_SIZE"); val != "" {
		c.Writer.PartSize = val
	}
	if val := os.Getenv("OBJECTSINK_CONCURRENCY"); val != "" {
		if concurrency, err := strconv.Atoi(val); err == nil {
			c.Writer.Concurrency = concurrency
		}
	}

	// Metrics settings
	if val := os.Getenv("OBJECTSINK_METRICS_ENABLED"); val != "" {
		c.Metrics.Enabled = strings.ToLower(val) == "true"
	}

	return nil
}

// Validate validates the configuration
func (c *Configuration) Validate() error {
	switch c.Storage.Backend {
	case BackendS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("bucket is required for the s3 backend")
		}
		if err := c.Storage.S3.Validate(); err != nil {
			return fmt.Errorf("s3: %w", err)
		}
	case BackendMinio:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("bucket is required for the minio backend")
		}
		if err := c.Storage.Minio.Validate(); err != nil {
			return fmt.Errorf("minio: %w", err)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported backend: %q (must be one of: s3, minio, memory)", c.Storage.Backend)
	}

	if c.Writer.Concurrency <= 0 {
		return fmt.Errorf("writer concurrency must be greater than 0")
	}
	if _, err := c.PartSizeBytes(); err != nil {
		return err
	}

	return nil
}

// PartSizeBytes parses the writer part size into bytes
func (c *Configuration) PartSizeBytes() (int64, error) {
	size, err := ParseSize(c.Writer.PartSize)
	if err != nil {
		return 0, fmt.Errorf("invalid part_size: %w", err)
	}
	return size, nil
}

// ParseSize parses a human-readable size string like "512KB" or "16MB"
// into a byte count. A bare number is interpreted as bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("size cannot be empty")
	}

	multipliers := []struct {
		suffix string
		factor int64
	}{
		{"GB", 1024 * 1024 * 1024},
		{"MB", 1024 * 1024},
		{"KB", 1024},
		{"B", 1},
	}

	for _, m := range multipliers {
		if strings.HasSuffix(s, m.suffix) {
			digits := strings.TrimSuffix(s, m.suffix)
			value, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid size %q", s)
			}
			if value < 0 {
				return 0, fmt.Errorf("size cannot be negative: %q", s)
			}
			return value * m.factor, nil
		}
	}

	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if value < 0 {
		return 0, fmt.Errorf("size cannot be negative: %q", s)
	}
	return value, nil
}
