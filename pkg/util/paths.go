package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePath cleans a relative path and rejects traversal outside the
// current directory. Absolute paths are rejected. Returns the cleaned path
// and whether it is safe to use.
func SafeFilePath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	// Treat backslashes as separators so Windows-style traversal is caught
	// on all platforms.
	normalized := strings.ReplaceAll(path, `\`, "/")
	if filepath.IsAbs(normalized) {
		return "", false
	}
	clean := filepath.Clean(normalized)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// SafeFilePathAllowAbsolute is like SafeFilePath but permits absolute paths.
// Used for config-sourced file references, where an absolute path is a
// deliberate operator choice but traversal via ".." is still rejected.
func SafeFilePathAllowAbsolute(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	normalized := strings.ReplaceAll(path, `\`, "/")
	clean := filepath.Clean(normalized)
	if filepath.IsAbs(clean) {
		return clean, true
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}
