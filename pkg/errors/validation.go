package errors

import (
	"strings"
	"unicode"
)

// ValidateCrateName validates a crate name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 64 characters (the registry's own limit)
//
// Registry-side naming policy (ASCII alphanumerics, - and _) is enforced
// by the registry itself on publish.
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCrate, "crate name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidCrate, "crate name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCrate, "crate name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // Crate names are never paths
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidCrate, "crate name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateCratePath validates a crate directory path supplied on the
// command line before it reaches the filesystem: non-empty, bounded
// length, no control characters.
func ValidateCratePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "crate path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "crate path too long (max 500 characters)")
	}

	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "crate path contains invalid characters")
		}
	}

	return nil
}
