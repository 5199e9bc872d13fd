package workflow

import (
	"context"
	"log/slog"
	"strings"

	"boxcar/internal/config"
	"boxcar/internal/deps"
	"boxcar/internal/journal"
	"boxcar/internal/logging"
	"boxcar/internal/pdftext"
	"boxcar/internal/services"
	"boxcar/internal/stage"
)

// readStage obtains the document text, falling back to OCR when the embedded
// layer is empty and OCR is enabled.
type readStage struct {
	cfg         *config.Config
	reader      pdftext.Reader
	ocr         pdftext.Reader
	pageCounter func(string) (int, error)
	logger      *slog.Logger
}

func (s *readStage) Prepare(ctx context.Context, rec *journal.Record) error {
	count, err := s.pageCounter(rec.SourcePath)
	if err != nil {
		return err
	}
	rec.PageCount = count
	return nil
}

func (s *readStage) Execute(ctx context.Context, rec *journal.Record) error {
	text, err := s.reader.Text(ctx, rec.SourcePath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) != "" {
		rec.Text = text
		return nil
	}

	if s.ocr == nil {
		rec.Method = "none"
		rec.Note = "NO_TEXT: document has no embedded text and ocr is disabled"
		return services.Wrap(
			services.ErrValidation,
			"reading",
			"embedded text",
			"document has no text layer",
			nil,
		)
	}

	logging.WithContext(ctx, s.logger).Info("no embedded text, running ocr",
		logging.String("path", rec.SourcePath),
		logging.Int("pages", rec.PageCount))
	text, err = s.ocr.Text(ctx, rec.SourcePath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		rec.Method = "none"
		rec.Note = "NO_TEXT: ocr produced no text"
		return services.Wrap(
			services.ErrValidation,
			"reading",
			"ocr",
			"ocr produced no text",
			nil,
		)
	}
	rec.Text = text
	rec.OCRUsed = true
	return nil
}

func (s *readStage) HealthCheck(ctx context.Context) stage.Health {
	statuses := deps.CheckBinaries(deps.ForConfig(s.cfg))
	missing := deps.MissingRequired(statuses)
	if len(missing) == 0 {
		return stage.Healthy("reading")
	}
	names := make([]string, 0, len(missing))
	for _, status := range missing {
		names = append(names, status.Command)
	}
	return stage.Unhealthy("reading", "missing binaries: "+strings.Join(names, ", "))
}
