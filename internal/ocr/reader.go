package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"boxcar/internal/config"
	"boxcar/internal/logging"
	"boxcar/internal/services"
)

var commandContext = exec.CommandContext

// Reader runs the two-step rasterize-then-recognize pipeline.
type Reader struct {
	pdftoppm    string
	tesseract   string
	dpi         int
	languages   string
	engineMode  int
	pageSegMode int
	timeout     time.Duration
	logger      *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reader{
		pdftoppm:    cfg.OCR.PdftoppmBinary,
		tesseract:   cfg.OCR.TesseractBinary,
		dpi:         cfg.OCR.DPI,
		languages:   cfg.OCR.Languages,
		engineMode:  cfg.OCR.EngineMode,
		pageSegMode: cfg.OCR.PageSegMode,
		timeout:     time.Duration(cfg.OCR.TimeoutSeconds) * time.Second,
		logger:      logger,
	}
}

// Text rasterizes every page of the document and concatenates the recognized
// text in page order. The timeout covers the whole document, not a single
// page.
func (r *Reader) Text(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tempDir, err := os.MkdirTemp("", "boxcar-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create raster directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pages, err := r.rasterize(ctx, path, tempDir)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", services.Wrap(
			services.ErrExternalTool,
			"reading",
			"pdftoppm",
			fmt.Sprintf("no pages rendered for %s", path),
			nil,
		)
	}

	var parts []string
	for _, page := range pages {
		text, err := r.recognize(ctx, page)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}

	combined := strings.Join(parts, "\n")
	r.logger.Debug("ocr finished",
		logging.String("path", path),
		logging.Int("pages", len(pages)),
		logging.Int("chars", len(combined)))
	return combined, nil
}

func (r *Reader) rasterize(ctx context.Context, path, tempDir string) ([]string, error) {
	prefix := filepath.Join(tempDir, "page")
	args := []string{"-r", strconv.Itoa(r.dpi), "-png", path, prefix}
	cmd := commandContext(ctx, r.pdftoppm, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, r.timeoutError("pdftoppm", ctx.Err())
		}
		return nil, services.Wrap(
			services.ErrExternalTool,
			"reading",
			"pdftoppm",
			strings.TrimSpace(stderr.String()),
			err,
		)
	}

	// pdftoppm zero-pads page numbers, so a name sort is page order.
	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("glob rendered pages: %w", err)
	}
	sort.Strings(pages)
	return pages, nil
}

func (r *Reader) recognize(ctx context.Context, page string) (string, error) {
	args := []string{
		page, "stdout",
		"-l", r.languages,
		"--oem", strconv.Itoa(r.engineMode),
		"--psm", strconv.Itoa(r.pageSegMode),
	}
	cmd := commandContext(ctx, r.tesseract, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", r.timeoutError("tesseract", ctx.Err())
		}
		return "", services.Wrap(
			services.ErrExternalTool,
			"reading",
			"tesseract",
			strings.TrimSpace(stderr.String()),
			err,
		)
	}
	return stdout.String(), nil
}

func (r *Reader) timeoutError(operation string, cause error) error {
	return services.Wrap(
		services.ErrTimeout,
		"reading",
		operation,
		fmt.Sprintf("ocr exceeded %s", r.timeout),
		cause,
	)
}
