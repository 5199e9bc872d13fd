package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	prefixLength = 4
	digitLength  = 7
	codeLength   = prefixLength + digitLength
)

// Tables holds the membership lists that drive matching and scoring. The
// lists come from configuration so the engine stays testable with alternate
// tables.
type Tables struct {
	keywords         []string
	foldedKeywords   []string
	knownPrefixes    map[string]struct{}
	excludedPrefixes map[string]struct{}
}

// NewTables builds lookup tables from keyword and prefix lists. Keywords are
// case-folded once here so scoring does not refold them per candidate.
func NewTables(keywords, knownPrefixes, excludedPrefixes []string) Tables {
	fold := cases.Fold()
	tables := Tables{
		keywords:         append([]string(nil), keywords...),
		foldedKeywords:   make([]string, 0, len(keywords)),
		knownPrefixes:    make(map[string]struct{}, len(knownPrefixes)),
		excludedPrefixes: make(map[string]struct{}, len(excludedPrefixes)),
	}
	for _, keyword := range keywords {
		tables.foldedKeywords = append(tables.foldedKeywords, fold.String(keyword))
	}
	for _, prefix := range knownPrefixes {
		tables.knownPrefixes[strings.ToUpper(prefix)] = struct{}{}
	}
	for _, prefix := range excludedPrefixes {
		tables.excludedPrefixes[strings.ToUpper(prefix)] = struct{}{}
	}
	return tables
}

// Keywords returns the configured keyword list in its original order.
func (t Tables) Keywords() []string {
	return append([]string(nil), t.keywords...)
}

// IsKnownPrefix reports whether the code's owner prefix belongs to a known
// container lessor or carrier.
func (t Tables) IsKnownPrefix(code string) bool {
	_, ok := t.knownPrefixes[prefixOf(code)]
	return ok
}

// IsExcludedPrefix reports whether the code's prefix is a registry identifier
// that shares the letters-then-digits shape but is never a container code.
func (t Tables) IsExcludedPrefix(code string) bool {
	_, ok := t.excludedPrefixes[prefixOf(code)]
	return ok
}

func prefixOf(code string) string {
	if len(code) < prefixLength {
		return strings.ToUpper(code)
	}
	return strings.ToUpper(code[:prefixLength])
}

func foldText(text string) string {
	return cases.Fold().String(text)
}

// runeIndex returns the rune offset of needle in haystack, or -1 when absent.
// Proximity windows are measured in runes so Cyrillic text does not widen
// them.
func runeIndex(haystack, needle string) int {
	idx := strings.Index(haystack, needle)
	if idx < 0 {
		return -1
	}
	return utf8.RuneCountInString(haystack[:idx])
}
