package utils

import (
	"fmt"
	"strings"
)

// ValidateObjectKey validates that an object key is acceptable to the
// storage backends. Keys are forward-slash separated and relative; the
// backends do not resolve traversal sequences, so keys containing them
// are rejected outright.
func ValidateObjectKey(key string) error {
	if key == "" {
		return fmt.Errorf("object key cannot be empty")
	}
	if strings.HasPrefix(key, "/") {
		return fmt.Errorf("object key cannot start with '/': %s", key)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" {
			return fmt.Errorf("object key contains empty segment: %s", key)
		}
		if segment == "." || segment == ".." {
			return fmt.Errorf("object key contains traversal segment: %s", key)
		}
	}
	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("object key contains control character: %q", key)
		}
	}
	return nil
}

// CleanKey normalizes an object key by collapsing repeated slashes and
// trimming a trailing slash. It does not resolve "." or ".." segments;
// keys with those fail validation instead.
func CleanKey(key string) string {
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return strings.TrimSuffix(key, "/")
}
