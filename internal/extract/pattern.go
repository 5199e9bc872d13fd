package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"boxcar/internal/logging"
)

var fallbackPattern = regexp.MustCompile(`(?i)\b([A-Z]{4})[-\s_]?([0-9]{7})\b`)

// Matcher scans document text for candidate container codes.
type Matcher struct {
	tables   Tables
	priority *regexp.Regexp
	logger   *slog.Logger
}

// NewMatcher builds a Matcher whose priority pass is anchored on the table's
// keyword list.
func NewMatcher(tables Tables, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Matcher{
		tables:   tables,
		priority: buildPriorityPattern(tables.keywords),
		logger:   logger,
	}
}

// buildPriorityPattern compiles the keyword-anchored expression. Spaces inside
// multi-word keywords match any run of whitespace, and a keyword may carry a
// trailing dot ("no.") before the optional separator.
func buildPriorityPattern(keywords []string) *regexp.Regexp {
	alternatives := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		quoted := regexp.QuoteMeta(keyword)
		alternatives = append(alternatives, strings.ReplaceAll(quoted, " ", `\s+`))
	}
	expr := `(?i)(?:` + strings.Join(alternatives, "|") + `)\.?\s*(?:№|#|:)?\s*([A-Z]{4}[-\s_]?[0-9]{7})\b`
	return regexp.MustCompile(expr)
}

// Candidates returns the de-duplicated, order-preserving list of valid codes
// found in text. The fallback pass runs only when the keyword-anchored pass
// finds nothing, so a keyword-adjacent code shadows stray bare matches. An
// empty or whitespace-only text yields no candidates without error.
func (m *Matcher) Candidates(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var raw []string
	for _, match := range m.priority.FindAllStringSubmatch(text, -1) {
		raw = append(raw, match[1])
	}
	if len(raw) == 0 {
		for _, match := range fallbackPattern.FindAllStringSubmatch(text, -1) {
			raw = append(raw, match[1]+match[2])
		}
		if len(raw) > 0 {
			m.logger.Debug("priority pass empty, using bare-shape fallback",
				logging.Int("matches", len(raw)))
		}
	}

	seen := make(map[string]struct{}, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, token := range raw {
		code, err := Normalize(token)
		if err != nil {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		candidates = append(candidates, code)
	}

	m.logger.Debug("candidate scan finished",
		logging.Int("candidates", len(candidates)))
	return candidates
}
