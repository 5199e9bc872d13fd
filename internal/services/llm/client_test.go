package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{
						"content": content,
					},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
}

func TestClientHealthCheck(t *testing.T) {
	server := completionServer(t, `{"ok":true}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestClientExtractCode(t *testing.T) {
	server := completionServer(t, `{"code":"temu1234567","confidence":0.9,"reason":"found near keyword"}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	extraction, err := client.ExtractCode(context.Background(), "контейнер TEMU1234567")
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if extraction.Code != "TEMU1234567" {
		t.Fatalf("expected uppercased code, got %q", extraction.Code)
	}
	if extraction.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %v", extraction.Confidence)
	}
	if extraction.Reason != "found near keyword" {
		t.Fatalf("unexpected reason %q", extraction.Reason)
	}
}

func TestClientExtractCodeCapsConfidence(t *testing.T) {
	server := completionServer(t, `{"code":"TEMU1234567","confidence":1.0,"reason":"certain"}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	extraction, err := client.ExtractCode(context.Background(), "контейнер TEMU1234567")
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if extraction.Confidence != extractionConfidenceCap {
		t.Fatalf("expected capped confidence %v, got %v", extractionConfidenceCap, extraction.Confidence)
	}
}

func TestClientExtractCodeNotFound(t *testing.T) {
	server := completionServer(t, `{"code":"","confidence":0.4,"reason":"not found"}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	extraction, err := client.ExtractCode(context.Background(), "обычное письмо без кодов")
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if extraction.Code != "" || extraction.Confidence != 0 {
		t.Fatalf("expected empty extraction with zero confidence, got %+v", extraction)
	}
}

func TestClientExtractCodeCodeFence(t *testing.T) {
	server := completionServer(t, "```json\n{\"code\":\"MSKU7654321\",\"confidence\":0.8,\"reason\":\"demo\"}\n```")
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	extraction, err := client.ExtractCode(context.Background(), "контейнер MSKU7654321")
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if extraction.Code != "MSKU7654321" {
		t.Fatalf("expected code from fenced payload, got %q", extraction.Code)
	}
	if !strings.Contains(extraction.Raw, "```") {
		t.Fatalf("expected raw payload to retain code fence, got %q", extraction.Raw)
	}
}

func TestClientExtractCodeTruncatesText(t *testing.T) {
	var receivedChars int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		for _, msg := range req.Messages {
			if msg.Role == "user" {
				receivedChars = len([]rune(msg.Content))
			}
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": `{"code":"","confidence":0,"reason":"none"}`}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:       "test",
		BaseURL:      server.URL,
		Model:        "demo-model",
		MaxTextChars: 100,
	})
	if _, err := client.ExtractCode(context.Background(), strings.Repeat("т", 500)); err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if receivedChars != 100 {
		t.Fatalf("expected 100 chars sent, got %d", receivedChars)
	}
}

func TestClientExtractCodeEmptyText(t *testing.T) {
	client := NewClient(Config{APIKey: "test", Model: "demo"})
	if _, err := client.ExtractCode(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": `{"code":"TEMU1234567","confidence":0.9,"reason":"ok"}`}},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	var slept time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept += d }),
	)
	extraction, err := client.ExtractCode(context.Background(), "контейнер TEMU1234567")
	if err != nil {
		t.Fatalf("ExtractCode returned error: %v", err)
	}
	if extraction.Code != "TEMU1234567" {
		t.Fatalf("unexpected code %q", extraction.Code)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
	if slept != time.Second {
		t.Fatalf("expected Retry-After honored, slept %s", slept)
	}
}
