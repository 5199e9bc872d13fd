package deps

import "boxcar/internal/config"

// ForConfig builds the external binary requirements for a run. OCR tools are
// required only when OCR is enabled; otherwise they show up as optional so a
// status listing still mentions them.
func ForConfig(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "pdftotext",
			Command:     cfg.PDF.PdftotextBinary,
			Description: "embedded text extraction (poppler-utils)",
		},
		{
			Name:        "pdftoppm",
			Command:     cfg.OCR.PdftoppmBinary,
			Description: "page rasterization for OCR (poppler-utils)",
			Optional:    !cfg.OCR.Enabled,
		},
		{
			Name:        "tesseract",
			Command:     cfg.OCR.TesseractBinary,
			Description: "text recognition for scanned documents",
			Optional:    !cfg.OCR.Enabled,
		},
	}
}

// MissingRequired returns the unavailable non-optional statuses.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}
