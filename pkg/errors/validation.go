package errors

import (
	"strings"
	"unicode"
)

// ValidateDocumentName validates a menu document name for safety.
// Document names become filenames under the documents directory, so they
// must be simple basenames without path components.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No hidden files (leading dot)
//   - Maximum length of 128 characters
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "document name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "document name contains control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "document name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "document name cannot contain traversal sequences (..)")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "document name cannot be a hidden file")
	}

	return nil
}

// ValidateLabel validates a menu entry label.
// Labels are rendered verbatim by the host menu, so control characters
// are rejected. Empty labels are rejected here; separator entries never
// reach this check because their labels are ignored entirely.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeMissingLabel, "label cannot be empty")
	}

	const maxLabelLength = 256
	if len(label) > maxLabelLength {
		return New(ErrCodeMissingLabel, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeMissingLabel, "label contains control characters")
		}
	}

	return nil
}
