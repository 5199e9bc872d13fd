package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"boxcar/internal/config"
	"boxcar/internal/logging"
	"boxcar/internal/services"
)

var commandContext = exec.CommandContext

// Reader supplies the textual content of a document.
type Reader interface {
	Text(ctx context.Context, path string) (string, error)
}

// CLI extracts embedded text by shelling out to pdftotext.
type CLI struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

func NewCLI(cfg *config.Config, logger *slog.Logger) *CLI {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CLI{
		binary:  cfg.PDF.PdftotextBinary,
		timeout: time.Duration(cfg.PDF.TimeoutSeconds) * time.Second,
		logger:  logger,
	}
}

// Text returns the embedded text layer of the document at path. Scanned
// documents without a text layer yield an empty string, not an error.
func (c *CLI) Text(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-"}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", services.Wrap(
				services.ErrTimeout,
				"reading",
				"pdftotext",
				fmt.Sprintf("text extraction exceeded %s", c.timeout),
				ctx.Err(),
			)
		}
		return "", services.Wrap(
			services.ErrExternalTool,
			"reading",
			"pdftotext",
			strings.TrimSpace(stderr.String()),
			err,
		)
	}

	text := stdout.String()
	c.logger.Debug("embedded text extracted",
		logging.String("path", path),
		logging.Int("chars", len(text)))
	return text, nil
}
