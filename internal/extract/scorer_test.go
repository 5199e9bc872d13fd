package extract_test

import (
	"math"
	"strings"
	"testing"

	"boxcar/internal/extract"
)

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreNoCandidates(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	result := scorer.Score(nil, "any text")
	if result.Code != "" || result.Confidence != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if result.Reason != "no candidates" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}
}

func TestScoreSoleCandidate(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	tests := []struct {
		name           string
		code           string
		wantCode       string
		wantConfidence float64
	}{
		{"known prefix", "TEMU1234567", "TEMU1234567", 0.98},
		{"unknown prefix", "ABCD1234567", "ABCD1234567", 0.85},
		{"excluded prefix", "OKPO1234567", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score([]string{tt.code}, tt.code)
			if result.Code != tt.wantCode {
				t.Fatalf("Score(%q) code = %q, want %q", tt.code, result.Code, tt.wantCode)
			}
			if !closeTo(result.Confidence, tt.wantConfidence) {
				t.Fatalf("Score(%q) confidence = %v, want %v", tt.code, result.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestScoreKeywordProximityWins(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	padding := strings.Repeat("x ", 80)
	text := "AAAA1111111 " + padding + "контейнер BBBB2222222"
	result := scorer.Score([]string{"AAAA1111111", "BBBB2222222"}, text)

	if result.Code != "BBBB2222222" {
		t.Fatalf("expected keyword-adjacent candidate to win, got %+v", result)
	}
	// base 0.30 + proximity 0.30 + length 0.11
	if !closeTo(result.Confidence, 0.71) {
		t.Fatalf("unexpected confidence %v", result.Confidence)
	}
}

func TestScoreKnownPrefixBeatsUnknown(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	text := "ABCD1234567 TEMU1234567"
	result := scorer.Score([]string{"ABCD1234567", "TEMU1234567"}, text)

	if result.Code != "TEMU1234567" {
		t.Fatalf("expected known prefix to win, got %+v", result)
	}
	// base 0.30 + known 0.50 + length 0.11
	if !closeTo(result.Confidence, 0.91) {
		t.Fatalf("unexpected confidence %v", result.Confidence)
	}
	if !strings.Contains(result.Reason, "known prefix") {
		t.Fatalf("expected known-prefix reason, got %q", result.Reason)
	}
}

func TestScoreCargoKeywordBonus(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	padding := strings.Repeat("y ", 80)
	text := "наименование груза: ABCD1234567 " + padding + "EFGH7654321"
	result := scorer.Score([]string{"ABCD1234567", "EFGH7654321"}, text)

	if result.Code != "ABCD1234567" {
		t.Fatalf("expected cargo-adjacent candidate to win, got %+v", result)
	}
	// base 0.30 + proximity 0.30 + cargo 0.20 + length 0.11
	if !closeTo(result.Confidence, 0.91) {
		t.Fatalf("unexpected confidence %v", result.Confidence)
	}
}

func TestScoreConfidenceCapped(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	text := "наименование груза: TEMU1234567 прибыл"
	result := scorer.Score([]string{"TEMU1234567", "ABCD9999999"}, text)

	if result.Code != "TEMU1234567" {
		t.Fatalf("expected known candidate to win, got %+v", result)
	}
	if !closeTo(result.Confidence, 0.98) {
		t.Fatalf("expected capped confidence, got %v", result.Confidence)
	}
}

func TestScoreTieKeepsEarlierCandidate(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	text := "AAAA1111111 BBBB2222222"
	result := scorer.Score([]string{"AAAA1111111", "BBBB2222222"}, text)

	if result.Code != "AAAA1111111" {
		t.Fatalf("expected earlier candidate on tie, got %+v", result)
	}
}

func TestScoreExcludedSkippedInMultiSet(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	text := "OKPO1234567 ABCD1234567"
	result := scorer.Score([]string{"OKPO1234567", "ABCD1234567"}, text)
	if result.Code != "ABCD1234567" {
		t.Fatalf("expected excluded candidate to be skipped, got %+v", result)
	}
}

func TestScoreAllCandidatesExcluded(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	result := scorer.Score([]string{"OKPO1234567", "OGRN7654321"}, "OKPO1234567 OGRN7654321")
	if result.Code != "" || result.Confidence != 0 {
		t.Fatalf("expected rejection, got %+v", result)
	}
	if result.Reason != "all candidates excluded" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}
}

func TestKeywordAnchoredScenarioEndToEnd(t *testing.T) {
	tables := defaultTables()
	matcher := extract.NewMatcher(tables, nil)
	scorer := extract.NewScorer(tables, nil)

	tests := []struct {
		name          string
		text          string
		wantCode      string
		minConfidence float64
	}{
		{
			name:          "single keyword anchored code",
			text:          "Контейнер № ABCD1234567 был доставлен",
			wantCode:      "ABCD1234567",
			minConfidence: 0.8,
		},
		{
			name:          "keyword proximity beats first occurrence",
			text:          "Коды: AAAA1111111, BBBB2222222, контейнер № CCCC3333333",
			wantCode:      "CCCC3333333",
			minConfidence: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := matcher.Candidates(tt.text)
			result := scorer.Score(candidates, tt.text)
			if result.Code != tt.wantCode {
				t.Fatalf("selected %q, want %q (candidates %v)", result.Code, tt.wantCode, candidates)
			}
			if result.Confidence <= tt.minConfidence {
				t.Fatalf("confidence %v not above %v", result.Confidence, tt.minConfidence)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := extract.NewScorer(defaultTables(), nil)

	text := "номер ABCD1234567, резерв TEMU7654321"
	first := scorer.Score([]string{"ABCD1234567", "TEMU7654321"}, text)
	for i := 0; i < 5; i++ {
		again := scorer.Score([]string{"ABCD1234567", "TEMU7654321"}, text)
		if again != first {
			t.Fatalf("scoring not reproducible: %+v vs %+v", again, first)
		}
	}
}
