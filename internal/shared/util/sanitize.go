package util

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes name safe as a single storage key segment and as a
// quoted Content-Disposition filename. Separators become '_' and double
// quotes become '\''. Traversal and control characters are rejected.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case r == '"':
			b.WriteRune('\'')
		case unicode.IsControl(r):
			return "", ErrInvalidFileName
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
