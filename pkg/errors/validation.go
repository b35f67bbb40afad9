package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user-supplied output path.
// The rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - No parent-directory traversal
//   - Maximum length of 500 characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain parent traversal (..)")
	}

	return nil
}

// ValidateNodeText validates text destined for a node.
// Line breaks are rejected because a node maps to exactly one outline
// line; everything else, including empty text, is allowed.
func ValidateNodeText(text string) error {
	if strings.ContainsAny(text, "\r\n") {
		return New(ErrCodeInvalidInput, "node text cannot contain line breaks")
	}
	return nil
}
