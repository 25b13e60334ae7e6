package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateLabel validates a section or category display label.
//
// The validation rules are intentionally conservative:
//   - No empty labels
//   - No control characters
//   - Maximum length of 128 characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidSection, "label cannot be empty")
	}

	if len(label) > 128 {
		return New(ErrCodeInvalidSection, "label too long (max 128 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSection, "label contains invalid control characters")
		}
	}

	return nil
}

// hexColorRegex matches 3- or 6-digit hex color values with a leading #.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a fill color. Empty is allowed (the renderer
// falls back to the per-type default fill).
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", color)
	}
	return nil
}

// ValidateDocumentPath validates a venue document path for safety.
// It prevents path traversal and ensures a reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// slugRegex matches derived category slugs: lowercase words joined by
// underscores, e.g. "balcony_l_1".
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)

// ValidateCategorySlug validates a category value key.
func ValidateCategorySlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "category slug cannot be empty")
	}
	if !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidInput, "invalid category slug: %q", slug)
	}
	return nil
}
