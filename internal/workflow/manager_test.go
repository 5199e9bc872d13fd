package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"boxcar/internal/journal"
	"boxcar/internal/logging"
	"boxcar/internal/services/llm"
	"boxcar/internal/testsupport"
)

// stubReader maps document base names to canned text.
type stubReader struct {
	texts map[string]string
	err   error
}

func (r *stubReader) Text(ctx context.Context, path string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.texts[filepath.Base(path)], nil
}

type stubExtractor struct {
	extraction llm.Extraction
	err        error
	calls      int
}

func (e *stubExtractor) ExtractCode(ctx context.Context, text string) (llm.Extraction, error) {
	e.calls++
	if e.err != nil {
		return llm.Extraction{}, e.err
	}
	return e.extraction, nil
}

func onePage(string) (int, error) { return 1, nil }

func newTestManager(t *testing.T, texts map[string]string, opts ...ManagerOption) (*Manager, *journal.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	base := []ManagerOption{
		WithReader(&stubReader{texts: texts}),
		WithPageCounter(onePage),
	}
	return NewManager(cfg, store, logging.NewNop(), append(base, opts...)...), store
}

func writeDocuments(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func runRecords(t *testing.T, store *journal.Store, runID string) []*journal.Record {
	t.Helper()
	records, err := store.ListRun(context.Background(), runID)
	if err != nil {
		t.Fatalf("list run: %v", err)
	}
	return records
}

func TestProcessFolderRenamesConfidentDocument(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "waybill.pdf")
	manager, store := newTestManager(t, map[string]string{
		"waybill.pdf": "Накладная. Контейнер № TEMU1234567 следует до станции назначения.",
	})

	summary, runID, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Total != 1 || summary.Renamed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	target := filepath.Join(folder, "TEMU1234567.pdf")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected renamed file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "waybill.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected source to be gone, got %v", err)
	}

	records := runRecords(t, store, runID)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Status != journal.StatusCompleted {
		t.Fatalf("unexpected status %q", rec.Status)
	}
	if rec.ExtractedCode != "TEMU1234567" || rec.Method != "regex" {
		t.Fatalf("unexpected extraction %q via %q", rec.ExtractedCode, rec.Method)
	}
	if rec.Confidence != 0.98 {
		t.Fatalf("unexpected confidence %v", rec.Confidence)
	}
	if rec.NewPath != target {
		t.Fatalf("unexpected new path %q", rec.NewPath)
	}
	if rec.PageCount != 1 {
		t.Fatalf("unexpected page count %d", rec.PageCount)
	}
}

func TestProcessFolderSuffixesCollidingCodes(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "a.pdf", "b.pdf")
	text := "Контейнер № TEMU1234567"
	manager, store := newTestManager(t, map[string]string{
		"a.pdf": text,
		"b.pdf": text,
	})

	summary, runID, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Renamed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	for _, name := range []string{"TEMU1234567.pdf", "TEMU1234567_1.pdf"} {
		if _, err := os.Stat(filepath.Join(folder, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	records := runRecords(t, store, runID)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !strings.Contains(records[1].Note, "suffix _1") {
		t.Fatalf("expected collision note, got %q", records[1].Note)
	}
}

func TestProcessFolderSkipsDocumentWithoutText(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "scan.pdf")
	manager, store := newTestManager(t, map[string]string{"scan.pdf": "   "})

	summary, runID, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Skipped != 1 || summary.Renamed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(folder, "scan.pdf")); err != nil {
		t.Fatalf("source must stay untouched: %v", err)
	}

	rec := runRecords(t, store, runID)[0]
	if rec.Status != journal.StatusSkipped {
		t.Fatalf("unexpected status %q", rec.Status)
	}
	if rec.Method != "none" || !strings.HasPrefix(rec.Note, "NO_TEXT:") {
		t.Fatalf("unexpected method %q note %q", rec.Method, rec.Note)
	}
}

func TestProcessFolderAdoptsVerifiedSecondaryExtraction(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "ambiguous.pdf")
	extractor := &stubExtractor{extraction: llm.Extraction{
		Code:       "BBBB2222222",
		Confidence: 0.9,
		Reason:     "second code sits in the cargo table",
	}}
	manager, store := newTestManager(t, map[string]string{
		"ambiguous.pdf": "AAAA1111111 BBBB2222222",
	}, WithExtractor(extractor))

	summary, runID, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Renamed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if extractor.calls != 1 {
		t.Fatalf("expected one model call, got %d", extractor.calls)
	}
	if _, err := os.Stat(filepath.Join(folder, "BBBB2222222.pdf")); err != nil {
		t.Fatalf("expected model-chosen name: %v", err)
	}

	rec := runRecords(t, store, runID)[0]
	if rec.ExtractedCode != "BBBB2222222" || rec.Method != "llm" {
		t.Fatalf("unexpected extraction %q via %q", rec.ExtractedCode, rec.Method)
	}
	if rec.Confidence != 0.9 {
		t.Fatalf("unexpected confidence %v", rec.Confidence)
	}
}

func TestProcessFolderRejectsUnverifiedSecondaryCode(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "ambiguous.pdf")
	extractor := &stubExtractor{extraction: llm.Extraction{
		Code:       "ZZZZ9999999",
		Confidence: 0.95,
	}}
	manager, store := newTestManager(t, map[string]string{
		"ambiguous.pdf": "AAAA1111111 BBBB2222222",
	}, WithExtractor(extractor))

	summary, runID, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Skipped != 1 || summary.Renamed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(folder, "ZZZZ9999999.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("hallucinated name must never be created, got %v", err)
	}

	rec := runRecords(t, store, runID)[0]
	if rec.Status != journal.StatusSkipped {
		t.Fatalf("unexpected status %q", rec.Status)
	}
	if rec.ExtractedCode != "AAAA1111111" || rec.Method != "regex" {
		t.Fatalf("heuristic result must survive rejection, got %q via %q", rec.ExtractedCode, rec.Method)
	}
	if !strings.HasPrefix(rec.Note, "NOT_FOUND: confidence") {
		t.Fatalf("unexpected note %q", rec.Note)
	}
}

func TestProcessFolderSecondaryFailureKeepsHeuristic(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "ambiguous.pdf")
	extractor := &stubExtractor{err: errors.New("model unavailable")}
	manager, store := newTestManager(t, map[string]string{
		"ambiguous.pdf": "AAAA1111111 BBBB2222222",
	}, WithExtractor(extractor))

	summary, runID, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	rec := runRecords(t, store, runID)[0]
	if rec.ExtractedCode != "AAAA1111111" {
		t.Fatalf("unexpected code %q", rec.ExtractedCode)
	}
}

func TestProcessFolderDryRunLeavesFilesystemUntouched(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "waybill.pdf")
	manager, store := newTestManager(t, map[string]string{
		"waybill.pdf": "Контейнер № TEMU1234567",
	}, WithDryRun(true))

	summary, runID, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Renamed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(folder, "waybill.pdf")); err != nil {
		t.Fatalf("dry run must not move files: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder, "TEMU1234567.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run must not create files, got %v", err)
	}

	rec := runRecords(t, store, runID)[0]
	if !rec.DryRun {
		t.Fatal("record must be flagged dry run")
	}
	if !strings.HasPrefix(rec.Note, "DRY RUN: ") {
		t.Fatalf("unexpected note %q", rec.Note)
	}
	if rec.NewPath != filepath.Join(folder, "TEMU1234567.pdf") {
		t.Fatalf("unexpected planned path %q", rec.NewPath)
	}
}

func TestProcessFolderContinuesAfterSkips(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "bare.pdf", "confident.pdf")
	manager, _ := newTestManager(t, map[string]string{
		"bare.pdf":      "справка без кодов",
		"confident.pdf": "Контейнер № MSCU7654321",
	})

	summary, _, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Total != 2 || summary.Renamed != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(folder, "MSCU7654321.pdf")); err != nil {
		t.Fatalf("expected renamed file: %v", err)
	}
}

func TestProcessFolderEmptyFolder(t *testing.T) {
	folder := t.TempDir()
	manager, _ := newTestManager(t, nil)

	summary, _, err := manager.ProcessFolder(context.Background(), folder)
	if err != nil {
		t.Fatalf("ProcessFolder: %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestInspectPreviewsWithoutSideEffects(t *testing.T) {
	folder := t.TempDir()
	writeDocuments(t, folder, "waybill.pdf")
	manager, store := newTestManager(t, map[string]string{
		"waybill.pdf": "Контейнер № TEMU1234567",
	})

	path := filepath.Join(folder, "waybill.pdf")
	inspection, err := manager.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if inspection.Code != "TEMU1234567" || inspection.Method != "regex" {
		t.Fatalf("unexpected inspection %+v", inspection)
	}
	if inspection.Confidence != 0.98 {
		t.Fatalf("unexpected confidence %v", inspection.Confidence)
	}
	if len(inspection.Candidates) != 1 {
		t.Fatalf("unexpected candidates %v", inspection.Candidates)
	}
	if inspection.TextChars == 0 {
		t.Fatal("expected text length to be reported")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("inspect must not rename: %v", err)
	}
	records, err := store.ListRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("inspect must not journal, found %d records", len(records))
	}
}
