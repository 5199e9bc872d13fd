package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var shapePattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{7}$`)

// ErrEmptyCode is returned when a raw code is empty after separator removal.
var ErrEmptyCode = errors.New("empty code")

// InvalidFormatError reports a code that does not match the container shape
// after normalization. Normalized carries the offending form for diagnostics.
type InvalidFormatError struct {
	Normalized string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("code %q does not match four letters plus seven digits", e.Normalized)
}

// Normalize canonicalizes a raw container code: whitespace, hyphens, and
// underscores are stripped, the rest uppercased, and the result validated
// against the strict shape. Normalizing an already canonical code returns it
// unchanged.
func Normalize(raw string) (string, error) {
	stripped := stripSeparators(raw)
	if stripped == "" {
		return "", ErrEmptyCode
	}
	code := strings.ToUpper(stripped)
	if !shapePattern.MatchString(code) {
		return "", &InvalidFormatError{Normalized: code}
	}
	return code, nil
}

func stripSeparators(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			return -1
		}
		return r
	}, raw)
}
