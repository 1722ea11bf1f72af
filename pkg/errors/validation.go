package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// rectangleIDRegex matches valid rectangle identifiers: printable,
// shell-safe names usable as graph node IDs and JSON keys.
var rectangleIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateRectangleID validates a rectangle identifier for safety and
// correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Must start with an alphanumeric, then alphanumerics, dot, dash, underscore
//   - Maximum length of 256 characters
func ValidateRectangleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "rectangle id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidID, "rectangle id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "rectangle id contains invalid control characters")
		}
	}

	if !rectangleIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid rectangle id: %q", id)
	}

	return nil
}

// ValidatePath validates a user-supplied file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateOutputFormat validates a render output format name.
func ValidateOutputFormat(format string, allowed []string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported output format: %q (valid: %s)",
		format, strings.Join(allowed, ", "))
}
