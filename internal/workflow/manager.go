package workflow

import (
	"context"
	"log/slog"

	"boxcar/internal/config"
	"boxcar/internal/extract"
	"boxcar/internal/journal"
	"boxcar/internal/logging"
	"boxcar/internal/ocr"
	"boxcar/internal/pdftext"
	"boxcar/internal/services/llm"
	"boxcar/internal/stage"
)

// Manager coordinates the per-document pipeline over a batch run.
type Manager struct {
	cfg    *config.Config
	store  *journal.Store
	logger *slog.Logger
	dryRun bool

	reader      pdftext.Reader
	ocrReader   pdftext.Reader
	extractor   llm.Extractor
	pageCounter func(string) (int, error)

	read    *readStage
	extract *extractStage
	rename  *renameStage
	stages  []pipelineStage
}

type pipelineStage struct {
	name       string
	processing journal.Status
	handler    stage.Handler
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithDryRun computes every decision and target path without mutating the
// filesystem.
func WithDryRun(enabled bool) ManagerOption {
	return func(m *Manager) {
		m.dryRun = enabled
	}
}

// WithReader overrides the embedded-text reader (used in tests).
func WithReader(reader pdftext.Reader) ManagerOption {
	return func(m *Manager) {
		m.reader = reader
	}
}

// WithOCRReader overrides the OCR reader (used in tests).
func WithOCRReader(reader pdftext.Reader) ManagerOption {
	return func(m *Manager) {
		m.ocrReader = reader
	}
}

// WithExtractor overrides the secondary extractor (used in tests).
func WithExtractor(extractor llm.Extractor) ManagerOption {
	return func(m *Manager) {
		m.extractor = extractor
	}
}

// WithPageCounter overrides the PDF preflight probe (used in tests).
func WithPageCounter(counter func(string) (int, error)) ManagerOption {
	return func(m *Manager) {
		m.pageCounter = counter
	}
}

// NewManager constructs a workflow manager wired from configuration.
func NewManager(cfg *config.Config, store *journal.Store, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{cfg: cfg, store: store, logger: logger}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.reader == nil {
		m.reader = pdftext.NewCLI(cfg, m.logger)
	}
	if m.ocrReader == nil && cfg.OCR.Enabled {
		m.ocrReader = ocr.New(cfg, m.logger)
	}
	if m.extractor == nil && cfg.LLM.Enabled {
		settings := cfg.GetLLM()
		m.extractor = llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			Referer:        settings.Referer,
			Title:          settings.Title,
			TimeoutSeconds: settings.TimeoutSeconds,
			MaxTextChars:   settings.MaxTextChars,
		})
	}
	if m.pageCounter == nil {
		m.pageCounter = pdftext.PageCount
	}

	tables := extract.NewTables(
		cfg.Matching.Keywords,
		cfg.Matching.KnownPrefixes,
		cfg.Matching.ExcludedPrefixes,
	)
	m.read = &readStage{
		cfg:         cfg,
		reader:      m.reader,
		ocr:         m.ocrReader,
		pageCounter: m.pageCounter,
		logger:      m.logger,
	}
	m.extract = &extractStage{
		matcher:   extract.NewMatcher(tables, m.logger),
		scorer:    extract.NewScorer(tables, m.logger),
		extractor: m.extractor,
		threshold: cfg.Matching.ConfidenceThreshold,
		logger:    m.logger,
	}
	m.rename = &renameStage{logger: m.logger}
	m.stages = []pipelineStage{
		{name: "reading", processing: journal.StatusReading, handler: m.read},
		{name: "extracting", processing: journal.StatusExtracting, handler: m.extract},
		{name: "renaming", processing: journal.StatusRenaming, handler: m.rename},
	}
	return m
}

// HealthCheck reports the readiness of every pipeline stage.
func (m *Manager) HealthCheck(ctx context.Context) []stage.Health {
	checks := make([]stage.Health, 0, len(m.stages))
	for _, st := range m.stages {
		checks = append(checks, st.handler.HealthCheck(ctx))
	}
	return checks
}
