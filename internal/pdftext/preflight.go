package pdftext

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"boxcar/internal/services"
)

// PageCount opens the document and counts its pages, rejecting files that are
// not parseable PDFs before any external tool runs.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, services.Wrap(
			services.ErrNotFound,
			"reading",
			"preflight",
			fmt.Sprintf("cannot open %s", path),
			err,
		)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, services.Wrap(
			services.ErrValidation,
			"reading",
			"preflight",
			fmt.Sprintf("%s is not a readable PDF", path),
			err,
		)
	}
	return count, nil
}

// ListDocuments returns the absolute paths of all PDF files directly inside
// folder, sorted by name so batches process in a stable order.
func ListDocuments(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, services.Wrap(
			services.ErrNotFound,
			"reading",
			"list documents",
			fmt.Sprintf("folder %s does not exist", folder),
			err,
		)
	}
	if !info.IsDir() {
		return nil, services.Wrap(
			services.ErrValidation,
			"reading",
			"list documents",
			fmt.Sprintf("%s is not a folder", folder),
			nil,
		)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, services.Wrap(
			services.ErrExternalTool,
			"reading",
			"list documents",
			fmt.Sprintf("cannot read folder %s", folder),
			err,
		)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		absolute, err := filepath.Abs(filepath.Join(folder, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("resolve document path: %w", err)
		}
		paths = append(paths, absolute)
	}
	sort.Strings(paths)
	return paths, nil
}
