package errors

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxIdentifierLength bounds a single identifier in a relation file or
// API request.
const maxIdentifierLength = 256

// ValidateIdentifier validates one item identifier read from user input.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Valid UTF-8
//   - No control characters or whitespace
//   - Maximum length of 256 characters
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRelation, "identifier cannot be empty")
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidRelation, "identifier too long (max %d characters)", maxIdentifierLength)
	}

	if !utf8.ValidString(id) {
		return New(ErrCodeInvalidRelation, "identifier %q is not valid UTF-8", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidRelation, "identifier %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidateFormat checks that format is one of allowed. The comparison is
// exact; callers normalize case beforehand.
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}
