package workflow

import (
	"context"
	"log/slog"
	"path/filepath"

	"boxcar/internal/journal"
	"boxcar/internal/logging"
	"boxcar/internal/rename"
	"boxcar/internal/services"
	"boxcar/internal/stage"
)

// renameStage moves the document to its code-based filename.
type renameStage struct {
	logger *slog.Logger
}

func (s *renameStage) Prepare(ctx context.Context, rec *journal.Record) error {
	if rec.ExtractedCode == "" {
		return services.Wrap(
			services.ErrValidation,
			"renaming",
			"prepare",
			"no extracted code to rename with",
			nil,
		)
	}
	return nil
}

func (s *renameStage) Execute(ctx context.Context, rec *journal.Record) error {
	dir := filepath.Dir(rec.SourcePath)
	ext := filepath.Ext(rec.SourcePath)
	if ext == "" {
		ext = ".pdf"
	}

	target, note, err := rename.Apply(rec.SourcePath, dir, rec.ExtractedCode, ext, rec.DryRun)
	if err != nil {
		return err
	}
	rec.NewPath = target.Path
	rec.Note = note

	logging.WithContext(ctx, s.logger).Info("document renamed",
		logging.String("from", rec.SourcePath),
		logging.String("to", target.Path),
		logging.Bool("dry_run", rec.DryRun),
		logging.Int("suffix", target.Suffix))
	return nil
}

func (s *renameStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("renaming")
}
