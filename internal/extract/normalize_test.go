package extract_test

import (
	"errors"
	"testing"

	"boxcar/internal/extract"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "ABCD1234567", "ABCD1234567"},
		{"lowercase with hyphen", "abcd-1234567", "ABCD1234567"},
		{"space separated", "TEMU 1234567", "TEMU1234567"},
		{"underscore separated", "mscu_7654321", "MSCU7654321"},
		{"surrounding whitespace", "  TGHU7654321\n", "TGHU7654321"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first, err := extract.Normalize("abcd-1234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := extract.Normalize(first)
	if err != nil {
		t.Fatalf("unexpected error on second pass: %v", err)
	}
	if second != first {
		t.Fatalf("normalization not idempotent: %q then %q", first, second)
	}
}

func TestNormalizeRejectsInvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"too short", "UI77"},
		{"too many digits", "ABCD12345678"},
		{"too few letters", "ABC1234567"},
		{"digits first", "1234567ABCD"},
		{"cyrillic letters", "АВСД1234567"},
		{"punctuation residue", "ABCD.1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extract.Normalize(tt.raw)
			var invalid *extract.InvalidFormatError
			if !errors.As(err, &invalid) {
				t.Fatalf("Normalize(%q) error = %v, want InvalidFormatError", tt.raw, err)
			}
			if invalid.Normalized == "" {
				t.Fatal("expected offending form in error")
			}
		})
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "-_-"} {
		if _, err := extract.Normalize(raw); !errors.Is(err, extract.ErrEmptyCode) {
			t.Fatalf("Normalize(%q) error = %v, want ErrEmptyCode", raw, err)
		}
	}
}
