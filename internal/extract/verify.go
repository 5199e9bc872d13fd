package extract

import "strings"

// occurrenceWindow bounds how far apart the letter and digit halves of a code
// may sit in the source text while still counting as one occurrence.
const occurrenceWindow = 20

// VerifyOccurrence reports whether code literally occurs in text, modulo
// separators and case. Either the full canonical code is a substring of the
// uppercased text, or its letter prefix and digit suffix both occur within
// the occurrence window of each other. Used to reject codes a secondary
// extractor invented rather than read.
func VerifyOccurrence(text, code string) bool {
	normalized := strings.ToUpper(stripSeparators(code))
	if normalized == "" || text == "" {
		return false
	}
	upper := strings.ToUpper(text)
	if strings.Contains(upper, normalized) {
		return true
	}
	if len(normalized) != codeLength {
		return false
	}

	letters := normalized[:prefixLength]
	digits := normalized[prefixLength:]
	letterPos := runeIndex(upper, letters)
	digitPos := runeIndex(upper, digits)
	if letterPos < 0 || digitPos < 0 {
		return false
	}
	distance := letterPos - digitPos
	return -occurrenceWindow < distance && distance < occurrenceWindow
}
