// Package config loads, normalizes, and validates Boxcar configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BOXCAR_LLM_API_KEY. The Config type centralizes every knob the CLI needs,
// from matching tables and confidence thresholds to the external binaries
// used for PDF text extraction and OCR.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
