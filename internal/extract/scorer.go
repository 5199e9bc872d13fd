package extract

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"boxcar/internal/logging"
)

// Scoring weights. Heuristics tuned on real waybills, named so tests can
// assert exact outcomes against alternate tables.
const (
	soleKnownConfidence   = 0.98
	soleUnknownConfidence = 0.85
	baseScore             = 0.30
	knownPrefixBonus      = 0.50
	keywordProximityBonus = 0.30
	cargoKeywordBonus     = 0.20
	lengthWeight          = 0.01
	confidenceCap         = 0.98
	keywordWindow         = 100
)

// Result is the outcome of scoring one document's candidate set. An empty
// Code always carries zero Confidence.
type Result struct {
	Code       string
	Confidence float64
	Reason     string
}

// Scorer ranks candidate codes against the document text they came from.
type Scorer struct {
	tables Tables
	logger *slog.Logger
}

func NewScorer(tables Tables, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scorer{tables: tables, logger: logger}
}

// Score selects the most plausible candidate. A sole candidate is judged by
// its prefix alone; multiple candidates are ranked by prefix reputation,
// keyword proximity, and a small length tie-break, with equal scores resolved
// in favor of the earlier occurrence.
func (s *Scorer) Score(candidates []string, text string) Result {
	if len(candidates) == 0 {
		return Result{Reason: "no candidates"}
	}
	if len(candidates) == 1 {
		return s.scoreSole(candidates[0])
	}
	return s.scoreMany(candidates, text)
}

func (s *Scorer) scoreSole(code string) Result {
	switch {
	case s.tables.IsExcludedPrefix(code):
		s.logger.Warn("sole candidate rejected: excluded prefix",
			logging.String("code", code))
		return Result{Reason: "excluded: not a container prefix"}
	case s.tables.IsKnownPrefix(code):
		return Result{Code: code, Confidence: soleKnownConfidence, Reason: "known container prefix"}
	default:
		return Result{Code: code, Confidence: soleUnknownConfidence, Reason: "sole candidate"}
	}
}

type scoredCandidate struct {
	code    string
	score   float64
	keyword string
	known   bool
}

func (s *Scorer) scoreMany(candidates []string, text string) Result {
	folded := foldText(text)

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, code := range candidates {
		if s.tables.IsExcludedPrefix(code) {
			s.logger.Debug("candidate skipped: excluded prefix",
				logging.String("code", code))
			continue
		}
		entry := s.scoreCandidate(code, folded)
		s.logger.Debug("candidate scored",
			logging.String("code", entry.code),
			logging.Float64("score", entry.score),
			logging.String("keyword", entry.keyword))
		scored = append(scored, entry)
	}

	if len(scored) == 0 {
		s.logger.Warn("all candidates rejected: excluded prefixes",
			logging.Int("candidates", len(candidates)))
		return Result{Reason: "all candidates excluded"}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	best := scored[0]

	confidence := best.score
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	reason := fmt.Sprintf("best of %d candidates", len(candidates))
	if best.known {
		reason = fmt.Sprintf("known prefix, best of %d candidates", len(candidates))
	}
	s.logger.Info("candidate selected",
		logging.String("code", best.code),
		logging.Float64("confidence", confidence),
		logging.String("reason", reason))
	return Result{Code: best.code, Confidence: confidence, Reason: reason}
}

func (s *Scorer) scoreCandidate(code, foldedText string) scoredCandidate {
	entry := scoredCandidate{code: code, score: baseScore}
	if s.tables.IsKnownPrefix(code) {
		entry.known = true
		entry.score += knownPrefixBonus
	}
	if keyword, ok := s.nearbyKeyword(code, foldedText); ok {
		entry.keyword = keyword
		entry.score += keywordProximityBonus
		if cargoKeyword(keyword) {
			entry.score += cargoKeywordBonus
		}
	}
	entry.score += lengthWeight * float64(len(code))
	return entry
}

// nearbyKeyword returns the first table keyword whose first occurrence in the
// folded text sits within the proximity window of the candidate's first
// occurrence. Keywords present but out of range do not stop the scan.
func (s *Scorer) nearbyKeyword(code, foldedText string) (string, bool) {
	codePos := runeIndex(foldedText, foldText(code))
	if codePos < 0 {
		return "", false
	}
	for i, folded := range s.tables.foldedKeywords {
		keywordPos := runeIndex(foldedText, folded)
		if keywordPos < 0 {
			continue
		}
		if distance := keywordPos - codePos; -keywordWindow < distance && distance < keywordWindow {
			return s.tables.keywords[i], true
		}
	}
	return "", false
}

// cargoKeyword reports whether the keyword names the cargo itself rather than
// a generic numbering label, which is a stronger signal.
func cargoKeyword(keyword string) bool {
	folded := foldText(keyword)
	for _, marker := range []string{"груз", "cargo", "наименование"} {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}
