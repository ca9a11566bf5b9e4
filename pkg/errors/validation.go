package errors

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// maxKeyNameLength bounds key text accepted from flags and URL paths.
// The longest valid spelling is three characters ("C#m").
const maxKeyNameLength = 16

// ValidateKeyName performs the cheap sanity checks on key text before it is
// handed to the theory parser. It rejects empty input, control characters and
// anything long enough to be obviously wrong.
//
// Spelling rules (letter, accidental, mode suffix) are checked by
// theory.ParseKey, not here.
func ValidateKeyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidKey, "key name cannot be empty")
	}

	if len(name) > maxKeyNameLength {
		return New(ErrCodeInvalidKey, "key name too long (max %d characters)", maxKeyNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "key name contains invalid control characters")
		}
	}

	return nil
}

// ParseTick parses a tick counter from query or flag text.
// An empty string yields def.
func ParseTick(s string, def uint) (uint, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidTick, err, "invalid tick %q (must be a non-negative integer)", s)
	}
	return uint(n), nil
}

// ValidateFormat checks a render format against the allowed set.
func ValidateFormat(format string, allowed map[string]bool) error {
	if !allowed[format] {
		names := slices.Sorted(maps.Keys(allowed))
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}
