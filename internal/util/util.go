package util

import (
	"crypto/sha1" //nolint:gosec // G401: sha1 for stable identifiers, not security
	"encoding/hex"
	"os"
	"strings"

	"github.com/bytedance/sonic"
)

// MarshalJSON wraps Sonic for performance
func MarshalJSON(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// UnmarshalJSON wraps Sonic for performance
func UnmarshalJSON(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// GetEnvWithDefault returns an environment variable or a default value
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseEnvList parses a comma-separated environment variable into a trimmed slice
func ParseEnvList(envVar string) []string {
	if envVar == "" {
		return nil
	}
	parts := strings.Split(envVar, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// MaskSecret truncates a secret for log output, keeping short affixes visible.
func MaskSecret(s string) string {
	if len(s) <= 6 {
		return "***"
	}
	return s[:3] + "***" + s[len(s)-3:]
}

// HashUserID derives a stable opaque user identifier from a client key.
func HashUserID(clientKey string) string {
	sum := sha1.Sum([]byte(clientKey)) //nolint:gosec // G401: identifier, not security
	return hex.EncodeToString(sum[:8])
}
