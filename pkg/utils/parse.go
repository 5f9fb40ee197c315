// Package utils provides small string and path helpers shared by the CLI.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseCommaSeparated splits a comma-separated string into a slice of trimmed, non-empty strings.
// Returns an empty slice for empty input.
//
// Examples:
//   - "a,b,c" -> ["a", "b", "c"]
//   - "a, b , c" -> ["a", "b", "c"]
//   - "a,,b" -> ["a", "b"] (empty values filtered out)
//   - "" -> []
func ParseCommaSeparated(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// ExpandHomePath expands a leading "~" to the current user's home directory
// and cleans the result. Empty input stays empty.
func ExpandHomePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return filepath.Clean(p)
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}
