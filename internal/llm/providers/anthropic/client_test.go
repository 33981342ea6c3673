package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"

	"tenderly/internal/llm"
)

func TestProvider_Generate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5-20251001",
			"content": [{"type": "text", "text": "  A short summary.  "}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	p, err := NewProvider("test-key", "claude-haiku-4-5-20251001", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	text, err := p.Generate(context.Background(), &llm.Request{
		Prompt:      "Summarize",
		MaxTokens:   300,
		Temperature: llm.Float(0.3),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "A short summary." {
		t.Fatalf("unexpected text %q", text)
	}
	if gotBody["max_tokens"] != float64(300) {
		t.Errorf("max_tokens = %v", gotBody["max_tokens"])
	}
	if gotBody["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("model = %v", gotBody["model"])
	}
}

func TestProvider_GenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	}))
	defer srv.Close()

	p, err := NewProvider("test-key", "claude-haiku-4-5-20251001", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	if _, err := p.Generate(context.Background(), &llm.Request{Prompt: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider("", "claude-haiku-4-5-20251001"); err == nil {
		t.Error("expected error for missing key")
	}
	if _, err := NewProvider("k", "gemini-2.5-flash"); err == nil {
		t.Error("expected error for non-claude model")
	}
}
