package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestNewDefault tests default configuration values
func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("expected default backend memory, got %s", cfg.Storage.Backend)
	}
	if cfg.Writer.PartSize != "10MB" {
		t.Errorf("expected default part size 10MB, got %s", cfg.Writer.PartSize)
	}
	if cfg.Writer.Concurrency != 8 {
		t.Errorf("expected default concurrency 8, got %d", cfg.Writer.Concurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration must validate: %v", err)
	}
}

// TestParseSize tests size string parsing
func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"10MB", 10 * 1024 * 1024, false},
		{"512KB", 512 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"128B", 128, false},
		{"4096", 4096, false},
		{"16mb", 16 * 1024 * 1024, false},
		{" 8MB ", 8 * 1024 * 1024, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoadFromFile tests YAML loading
func TestLoadFromFile(t *testing.T) {
	content := `
storage:
  backend: s3
  bucket: analytics
  s3:
    region: eu-central-1
    force_path_style: true
writer:
  part_size: 16MB
  concurrency: 4
metrics:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg := NewDefault()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Storage.Backend != BackendS3 {
		t.Errorf("expected s3 backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Bucket != "analytics" {
		t.Errorf("expected bucket analytics, got %s", cfg.Storage.Bucket)
	}
	if cfg.Storage.S3.Region != "eu-central-1" {
		t.Errorf("expected region eu-central-1, got %s", cfg.Storage.S3.Region)
	}
	if !cfg.Storage.S3.ForcePathStyle {
		t.Error("expected force_path_style true")
	}
	if cfg.Writer.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Writer.Concurrency)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics disabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded configuration must validate: %v", err)
	}

	size, err := cfg.PartSizeBytes()
	if err != nil {
		t.Fatalf("PartSizeBytes failed: %v", err)
	}
	if size != 16*1024*1024 {
		t.Errorf("expected 16MB part size, got %d", size)
	}
}

// TestLoadFromFileMissing tests missing file handling
func TestLoadFromFileMissing(t *testing.T) {
	cfg := NewDefault()
	if err := cfg.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestLoadFromEnv tests environment variable overrides
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OBJECTSINK_BACKEND", "minio")
	t.Setenv("OBJECTSINK_BUCKET", "env-bucket")
	t.Setenv("OBJECTSINK_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("OBJECTSINK_PART_SIZE", "32MB")
	t.Setenv("OBJECTSINK_CONCURRENCY", "16")
	t.Setenv("OBJECTSINK_METRICS_ENABLED", "false")

	cfg := NewDefault()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Storage.Backend != BackendMinio {
		t.Errorf("expected minio backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Bucket != "env-bucket" {
		t.Errorf("expected env-bucket, got %s", cfg.Storage.Bucket)
	}
	if cfg.Writer.PartSize != "32MB" {
		t.Errorf("expected 32MB, got %s", cfg.Writer.PartSize)
	}
	if cfg.Writer.Concurrency != 16 {
		t.Errorf("expected concurrency 16, got %d", cfg.Writer.Concurrency)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics disabled")
	}
}

// TestValidate tests validation failures
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{
			name:   "unknown backend",
			mutate: func(c *Configuration) { c.Storage.Backend = "ftp" },
		},
		{
			name: "s3 without bucket",
			mutate: func(c *Configuration) {
				c.Storage.Backend = BackendS3
				c.Storage.Bucket = ""
			},
		},
		{
			name: "minio without endpoint",
			mutate: func(c *Configuration) {
				c.Storage.Backend = BackendMinio
				c.Storage.Bucket = "b"
			},
		},
		{
			name:   "zero concurrency",
			mutate: func(c *Configuration) { c.Writer.Concurrency = 0 },
		},
		{
			name:   "bad part size",
			mutate: func(c *Configuration) { c.Writer.PartSize = "lots" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
