package minio

import (
	"testing"
)

// TestConfigValidate tests configuration validation rules
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "complete config is valid",
			config: &Config{
				Endpoint:        "localhost:9000",
				AccessKeyID:     "minioadmin",
				SecretAccessKey: "minioadmin",
			},
			wantErr: false,
		},
		{
			name:    "missing endpoint",
			config:  &Config{AccessKeyID: "a", SecretAccessKey: "b"},
			wantErr: true,
		},
		{
			name:    "missing credentials",
			config:  &Config{Endpoint: "localhost:9000"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestNewBackendValidation tests constructor argument validation
func TestNewBackendValidation(t *testing.T) {
	cfg := &Config{
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
	}

	if _, err := NewBackend("", cfg, nil); err == nil {
		t.Error("expected error for empty bucket")
	}
	if _, err := NewBackend("bucket", nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewBackend("bucket", &Config{}, nil); err == nil {
		t.Error("expected error for invalid config")
	}

	backend, err := NewBackend("bucket", cfg, nil)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if backend == nil {
		t.Fatal("expected backend instance")
	}
}
