package utils

import "testing"

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple", "file.parquet", false},
		{"nested", "year=2026/month=08/part-0001.parquet", false},
		{"empty", "", true},
		{"leading slash", "/data/file", true},
		{"trailing slash", "data/file/", true},
		{"double slash", "data//file", true},
		{"dot segment", "data/./file", true},
		{"traversal", "data/../file", true},
		{"control char", "data/fi\nle", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateObjectKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"data//file", "data/file"},
		{"data///file", "data/file"},
		{"data/file/", "data/file"},
		{"data/file", "data/file"},
	}

	for _, tt := range tests {
		if got := CleanKey(tt.input); got != tt.want {
			t.Errorf("CleanKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
