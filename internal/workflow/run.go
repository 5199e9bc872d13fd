package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"boxcar/internal/journal"
	"boxcar/internal/logging"
	"boxcar/internal/pdftext"
	"boxcar/internal/services"
)

// ProcessFolder runs the pipeline over every PDF in folder and returns the
// run summary plus the run identifier. The run lock guards the journal
// against a second concurrent batch; per-document failures are journaled and
// do not abort the batch.
func (m *Manager) ProcessFolder(ctx context.Context, folder string) (journal.Summary, string, error) {
	lock := journal.NewRunLock(m.cfg.LockPath())
	if err := lock.Acquire(); err != nil {
		return journal.Summary{}, "", err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			m.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)

	paths, err := pdftext.ListDocuments(folder)
	if err != nil {
		return journal.Summary{}, runID, err
	}
	logger.Info("run started",
		logging.String("folder", folder),
		logging.Int("documents", len(paths)),
		logging.Bool("dry_run", m.dryRun))

	var interrupted bool
	for _, path := range paths {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if err := m.processDocument(ctx, runID, path); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				interrupted = true
				break
			}
			logger.Error("document processing aborted",
				logging.String("path", path),
				logging.Error(err))
		}
	}

	finishCtx := context.WithoutCancel(ctx)
	if interrupted {
		failed, err := m.store.FailInFlight(finishCtx, runID, "run interrupted")
		if err != nil {
			logger.Error("failed to mark in-flight documents", logging.Error(err))
		} else if failed > 0 {
			logger.Warn("in-flight documents marked failed", logging.Int("documents", int(failed)))
		}
	}

	summary, err := m.store.RunSummary(finishCtx, runID)
	if err != nil {
		return journal.Summary{}, runID, fmt.Errorf("summarize run: %w", err)
	}
	logger.Info("run finished",
		logging.Int("total", summary.Total),
		logging.Int("renamed", summary.Renamed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("errors", summary.Errors))
	if interrupted {
		return summary, runID, ctx.Err()
	}
	return summary, runID, nil
}

// processDocument walks one document through the stage sequence. Stage
// failures are persisted to the journal and swallowed; only infrastructure
// errors (journal writes, cancellation) propagate.
func (m *Manager) processDocument(parent context.Context, runID, path string) error {
	rec, err := m.store.NewDocument(parent, runID, path, m.dryRun)
	if err != nil {
		return fmt.Errorf("journal document: %w", err)
	}
	docCtx := services.WithDocumentID(parent, rec.ID)

	for _, st := range m.stages {
		ctx := services.WithStage(docCtx, st.name)
		logger := logging.WithContext(ctx, m.logger)

		rec.Status = st.processing
		if err := m.store.Update(ctx, rec); err != nil {
			return fmt.Errorf("persist %s transition: %w", st.name, err)
		}

		if err := st.handler.Prepare(ctx, rec); err != nil {
			return m.finishDocument(ctx, rec, err)
		}
		if err := st.handler.Execute(ctx, rec); err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Debug("stage interrupted by shutdown")
				return err
			}
			return m.finishDocument(ctx, rec, err)
		}
	}

	rec.Status = journal.StatusCompleted
	if err := m.store.Update(docCtx, rec); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}
	logging.WithContext(docCtx, m.logger).Info("document processed",
		logging.String("code", rec.ExtractedCode),
		logging.String("method", rec.Method),
		logging.Float64("confidence", rec.Confidence),
		logging.String("new_path", rec.NewPath),
		logging.String("note", rec.Note))
	return nil
}

// finishDocument records a stage failure as the document's terminal outcome.
// It returns nil so the batch moves on, unless the journal itself fails.
func (m *Manager) finishDocument(ctx context.Context, rec *journal.Record, cause error) error {
	logger := logging.WithContext(ctx, m.logger)

	rec.Status = services.FailureStatus(cause)
	if strings.TrimSpace(rec.Note) == "" {
		rec.Note = cause.Error()
	}
	if rec.Method == "" {
		rec.Method = "none"
	}
	if err := m.store.Update(context.WithoutCancel(ctx), rec); err != nil {
		return fmt.Errorf("persist document outcome: %w", err)
	}

	if rec.Status == journal.StatusSkipped {
		logger.Info("document skipped",
			logging.String("path", rec.SourcePath),
			logging.String("note", rec.Note))
	} else {
		logger.Error("document failed",
			logging.String("path", rec.SourcePath),
			logging.Error(cause))
	}
	return nil
}
