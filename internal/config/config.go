package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Matching contains the heuristic tables and thresholds used when scoring
// candidate container codes. Empty lists fall back to repository defaults.
type Matching struct {
	ConfidenceThreshold float64  `toml:"confidence_threshold"`
	Keywords            []string `toml:"keywords"`
	KnownPrefixes       []string `toml:"known_prefixes"`
	ExcludedPrefixes    []string `toml:"excluded_prefixes"`
}

// PDF contains configuration for embedded-text extraction from PDF files.
type PDF struct {
	PdftotextBinary string `toml:"pdftotext_binary"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// OCR contains configuration for rasterized-page text recognition.
type OCR struct {
	Enabled         bool   `toml:"enabled"`
	PdftoppmBinary  string `toml:"pdftoppm_binary"`
	TesseractBinary string `toml:"tesseract_binary"`
	DPI             int    `toml:"dpi"`
	Languages       string `toml:"languages"`
	EngineMode      int    `toml:"engine_mode"`
	PageSegMode     int    `toml:"page_seg_mode"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// LLM contains connection settings for the secondary extractor.
type LLM struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxTextChars   int    `toml:"max_text_chars"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Boxcar.
//
// Configuration sections by subsystem:
//   - Paths: data directory (journal database, run lock) and log directory
//   - Matching: candidate scoring tables and the auto-rename threshold
//   - PDF: pdftotext invocation settings
//   - OCR: pdftoppm + tesseract invocation settings
//   - LLM: secondary extractor connection settings
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Matching Matching `toml:"matching"`
	PDF      PDF      `toml:"pdf"`
	OCR      OCR      `toml:"ocr"`
	LLM      LLM      `toml:"llm"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/boxcar/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/boxcar/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("boxcar.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs before it starts.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// JournalPath returns the path of the SQLite journal database.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.DataDir, "journal.db")
}

// LockPath returns the path of the single-writer lock file guarding the journal.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "boxcar.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the sanitized LLM connection settings.
type LLMConfig struct {
	Enabled        bool
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	MaxTextChars   int
}

// GetLLM returns the secondary extractor connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Enabled:        c.LLM.Enabled,
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
		MaxTextChars:   c.LLM.MaxTextChars,
	}
}
