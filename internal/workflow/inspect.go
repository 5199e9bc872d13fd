package workflow

import (
	"context"

	"boxcar/internal/journal"
)

// Inspection is the outcome of a single-document extraction preview. Nothing
// is journaled or renamed.
type Inspection struct {
	Path       string
	PageCount  int
	TextChars  int
	OCRUsed    bool
	Candidates []string
	Code       string
	Confidence float64
	Method     string
	Note       string
}

// Inspect runs the reading and extracting stages against one document and
// reports what a real run would have decided.
func (m *Manager) Inspect(ctx context.Context, path string) (Inspection, error) {
	rec := &journal.Record{SourcePath: path, DryRun: true}

	if err := m.read.Prepare(ctx, rec); err != nil {
		return inspectionFrom(rec), err
	}
	if err := m.read.Execute(ctx, rec); err != nil {
		return inspectionFrom(rec), err
	}
	if err := m.extract.Execute(ctx, rec); err != nil {
		return inspectionFrom(rec), err
	}
	return inspectionFrom(rec), nil
}

func inspectionFrom(rec *journal.Record) Inspection {
	return Inspection{
		Path:       rec.SourcePath,
		PageCount:  rec.PageCount,
		TextChars:  len(rec.Text),
		OCRUsed:    rec.OCRUsed,
		Candidates: rec.Candidates,
		Code:       rec.ExtractedCode,
		Confidence: rec.Confidence,
		Method:     rec.Method,
		Note:       rec.Note,
	}
}
