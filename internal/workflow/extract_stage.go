package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"boxcar/internal/extract"
	"boxcar/internal/journal"
	"boxcar/internal/logging"
	"boxcar/internal/services"
	"boxcar/internal/services/llm"
	"boxcar/internal/stage"
)

// extractStage finds and scores candidate codes, consulting the secondary
// extractor when the heuristic result is uncertain.
type extractStage struct {
	matcher   *extract.Matcher
	scorer    *extract.Scorer
	extractor llm.Extractor
	threshold float64
	logger    *slog.Logger
}

func (s *extractStage) Prepare(ctx context.Context, rec *journal.Record) error {
	return nil
}

func (s *extractStage) Execute(ctx context.Context, rec *journal.Record) error {
	logger := logging.WithContext(ctx, s.logger)

	candidates := s.matcher.Candidates(rec.Text)
	rec.Candidates = candidates
	result := s.scorer.Score(candidates, rec.Text)
	method := "regex"
	logger.Info("heuristic extraction finished",
		logging.Int("candidates", len(candidates)),
		logging.String("code", result.Code),
		logging.Float64("confidence", result.Confidence),
		logging.String("reason", result.Reason))

	if s.extractor != nil && (result.Confidence < s.threshold || len(candidates) > 1) {
		if adopted, ok := s.consultSecondary(ctx, rec.Text, result); ok {
			result = adopted
			method = "llm"
		}
	}

	if result.Code == "" {
		rec.Method = "none"
		rec.Note = "NOT_FOUND: " + result.Reason
		return services.Wrap(
			services.ErrNotFound,
			"extracting",
			"score",
			result.Reason,
			nil,
		)
	}

	code, err := extract.Normalize(result.Code)
	if err != nil {
		rec.Method = "none"
		rec.Note = "NOT_FOUND: selected code failed validation"
		return services.Wrap(
			services.ErrValidation,
			"extracting",
			"normalize",
			"selected code failed validation",
			err,
		)
	}

	if rec.OCRUsed {
		method = "ocr+" + method
	}
	rec.ExtractedCode = code
	rec.Method = method
	rec.Confidence = result.Confidence

	if result.Confidence < s.threshold {
		rec.Note = fmt.Sprintf("NOT_FOUND: confidence %.2f below threshold %.2f (%s)",
			result.Confidence, s.threshold, result.Reason)
		return services.Wrap(
			services.ErrNotFound,
			"extracting",
			"threshold",
			rec.Note,
			nil,
		)
	}
	rec.Note = result.Reason
	return nil
}

// consultSecondary asks the model for a code and adopts it only when it is
// more confident than the heuristic, well formed, and literally present in
// the document text.
func (s *extractStage) consultSecondary(ctx context.Context, text string, primary extract.Result) (extract.Result, bool) {
	logger := logging.WithContext(ctx, s.logger)

	secondary, err := s.extractor.ExtractCode(ctx, text)
	if err != nil {
		logger.Warn("secondary extractor failed, keeping heuristic result", logging.Error(err))
		return primary, false
	}
	if secondary.Code == "" || secondary.Confidence <= primary.Confidence {
		return primary, false
	}
	code, err := extract.Normalize(secondary.Code)
	if err != nil {
		logger.Warn("secondary extractor proposed a malformed code",
			logging.String("code", secondary.Code))
		return primary, false
	}
	if !extract.VerifyOccurrence(text, code) {
		logger.Warn("secondary extractor code absent from document text, rejected",
			logging.String("code", code),
			logging.Float64("claimed_confidence", secondary.Confidence))
		return primary, false
	}
	logger.Info("secondary extraction adopted",
		logging.String("code", code),
		logging.Float64("confidence", secondary.Confidence))
	return extract.Result{Code: code, Confidence: secondary.Confidence, Reason: secondary.Reason}, true
}

func (s *extractStage) HealthCheck(ctx context.Context) stage.Health {
	type pinger interface {
		HealthCheck(context.Context) error
	}
	if p, ok := s.extractor.(pinger); ok {
		if err := p.HealthCheck(ctx); err != nil {
			return stage.Unhealthy("extracting", err.Error())
		}
	}
	return stage.Healthy("extracting")
}
