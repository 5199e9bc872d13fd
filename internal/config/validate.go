package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validatePDF(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.ConfidenceThreshold < 0 || c.Matching.ConfidenceThreshold > 1 {
		return errors.New("matching.confidence_threshold must be between 0 and 1")
	}
	if len(c.Matching.Keywords) == 0 {
		return errors.New("matching.keywords must include at least one keyword")
	}
	for _, prefix := range c.Matching.KnownPrefixes {
		if len([]rune(prefix)) != 4 {
			return fmt.Errorf("matching.known_prefixes entry %q must be four letters", prefix)
		}
	}
	return nil
}

func (c *Config) validatePDF() error {
	if err := ensurePositiveMap(map[string]int{
		"pdf.timeout_seconds": c.PDF.TimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOCR() error {
	if !c.OCR.Enabled {
		return nil
	}
	if err := ensurePositiveMap(map[string]int{
		"ocr.dpi":             c.OCR.DPI,
		"ocr.timeout_seconds": c.OCR.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.OCR.Languages) == "" {
		return errors.New("ocr.languages must be set when ocr.enabled is true")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.api_key must be set when llm.enabled is true (or set BOXCAR_LLM_API_KEY)")
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set when llm.enabled is true")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
