package config

const (
	defaultDataDir             = "~/.local/share/boxcar"
	defaultLogDir              = "~/.local/share/boxcar/logs"
	defaultConfidenceThreshold = 0.8
	defaultPdftotextBinary     = "pdftotext"
	defaultPdftoppmBinary      = "pdftoppm"
	defaultTesseractBinary     = "tesseract"
	defaultPDFTimeoutSeconds   = 60
	defaultOCRDPI              = 300
	defaultOCRLanguages        = "rus+eng"
	defaultOCREngineMode       = 3
	defaultOCRPageSegMode      = 6
	defaultOCRTimeoutSeconds   = 300
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMTimeoutSeconds   = 60
	defaultLLMMaxTextChars     = 2000
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// DefaultKeywords lists the waybill keywords that anchor the priority
// pattern and boost candidate scores. Mixed Russian and English because the
// documents are rail waybills from bilingual carriers.
func DefaultKeywords() []string {
	return []string{
		"контейнер", "container", "наименование груза", "груз", "cargo",
		"код", "номер", "no", "№", "number", "наименование",
	}
}

// DefaultKnownPrefixes lists the four-letter owner prefixes of major
// container lessors and carriers.
func DefaultKnownPrefixes() []string {
	return []string{
		"TEMU", "MSCU", "TKRU", "TGHU", "FCIU", "HLBU", "CMAU", "NYKU",
		"GESU", "TCLU", "WHLU", "PONU", "COSU", "HDMU", "KKFU", "GLDU",
		"TCNU", "SNBU", "BMOU", "DFSU", "SUDU", "APZU", "EISU", "CAXU",
		"MEDU", "OOCU", "TRLU", "INKU", "MSKU", "CRXU", "MRKU", "CXDU",
	}
}

// DefaultExcludedPrefixes lists registry identifiers that share the
// letters-then-digits shape but are never container codes.
func DefaultExcludedPrefixes() []string {
	return []string{"OKNO", "OKPO", "OGRN", "INN", "КПП"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matching: Matching{
			ConfidenceThreshold: defaultConfidenceThreshold,
			Keywords:            DefaultKeywords(),
			KnownPrefixes:       DefaultKnownPrefixes(),
			ExcludedPrefixes:    DefaultExcludedPrefixes(),
		},
		PDF: PDF{
			PdftotextBinary: defaultPdftotextBinary,
			TimeoutSeconds:  defaultPDFTimeoutSeconds,
		},
		OCR: OCR{
			PdftoppmBinary:  defaultPdftoppmBinary,
			TesseractBinary: defaultTesseractBinary,
			DPI:             defaultOCRDPI,
			Languages:       defaultOCRLanguages,
			EngineMode:      defaultOCREngineMode,
			PageSegMode:     defaultOCRPageSegMode,
			TimeoutSeconds:  defaultOCRTimeoutSeconds,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxTextChars:   defaultLLMMaxTextChars,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
