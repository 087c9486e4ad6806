package util

import (
	"os"
	"regexp"
	"strings"

	"modelcatalog/internal/core"
)

var envRefPattern = regexp.MustCompile(`^\$\{(\w+)\}$`)

// ExtractEnvVariable resolves a configured value that may be an environment
// indirection of the form ${VAR_NAME}. Literal values pass through unchanged,
// as does an indirection whose variable is unset (the raw marker is kept so
// eligibility checks can still see a non-empty value).
func ExtractEnvVariable(raw string) string {
	match := envRefPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return raw
	}
	if value := os.Getenv(match[1]); value != "" {
		return value
	}
	return raw
}

// IsUserProvided reports whether a resolved value is the per-user sentinel.
func IsUserProvided(resolvedValue string) bool {
	return resolvedValue == core.UserProvidedSentinel
}

// NormalizeEndpointName canonicalizes an endpoint display name. Built-in
// provider names are matched case-insensitively; everything else passes
// through unchanged apart from surrounding whitespace.
func NormalizeEndpointName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.EqualFold(trimmed, "ollama") {
		return "ollama"
	}
	return trimmed
}
