package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizePDF()
	c.normalizeOCR()
	c.normalizeLLM()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.ConfidenceThreshold == 0 {
		c.Matching.ConfidenceThreshold = defaultConfidenceThreshold
	}
	c.Matching.Keywords = normalizeList(c.Matching.Keywords, strings.ToLower, DefaultKeywords)
	c.Matching.KnownPrefixes = normalizeList(c.Matching.KnownPrefixes, strings.ToUpper, DefaultKnownPrefixes)
	c.Matching.ExcludedPrefixes = normalizeList(c.Matching.ExcludedPrefixes, strings.ToUpper, DefaultExcludedPrefixes)
}

// normalizeList trims, folds, and dedups entries, preserving order. An empty
// result falls back to the repository defaults.
func normalizeList(values []string, fold func(string) string, fallback func() []string) []string {
	if len(values) == 0 {
		return fallback()
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := fold(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return fallback()
	}
	return out
}

func (c *Config) normalizePDF() {
	c.PDF.PdftotextBinary = strings.TrimSpace(c.PDF.PdftotextBinary)
	if c.PDF.PdftotextBinary == "" {
		c.PDF.PdftotextBinary = defaultPdftotextBinary
	}
	if c.PDF.TimeoutSeconds <= 0 {
		c.PDF.TimeoutSeconds = defaultPDFTimeoutSeconds
	}
}

func (c *Config) normalizeOCR() {
	c.OCR.PdftoppmBinary = strings.TrimSpace(c.OCR.PdftoppmBinary)
	if c.OCR.PdftoppmBinary == "" {
		c.OCR.PdftoppmBinary = defaultPdftoppmBinary
	}
	c.OCR.TesseractBinary = strings.TrimSpace(c.OCR.TesseractBinary)
	if c.OCR.TesseractBinary == "" {
		c.OCR.TesseractBinary = defaultTesseractBinary
	}
	if c.OCR.DPI <= 0 {
		c.OCR.DPI = defaultOCRDPI
	}
	c.OCR.Languages = strings.TrimSpace(c.OCR.Languages)
	if c.OCR.Languages == "" {
		c.OCR.Languages = defaultOCRLanguages
	}
	if c.OCR.EngineMode <= 0 {
		c.OCR.EngineMode = defaultOCREngineMode
	}
	if c.OCR.PageSegMode <= 0 {
		c.OCR.PageSegMode = defaultOCRPageSegMode
	}
	if c.OCR.TimeoutSeconds <= 0 {
		c.OCR.TimeoutSeconds = defaultOCRTimeoutSeconds
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.MaxTextChars <= 0 {
		c.LLM.MaxTextChars = defaultLLMMaxTextChars
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("BOXCAR_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
