package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Analyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Format != "json" {
			t.Errorf("expected format json, got %q", req.Format)
		}
		if req.Stream {
			t.Error("expected stream disabled")
		}

		resp := ollamaResponse{
			Model:    "llama3.1",
			Response: `{"risks":[{"phrase":"X","level":"Medium","category":"Termination","explanation":"E","plainEnglish":"P"}]}`,
			Done:     true,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.1",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	findings, err := provider.Analyze(context.Background(), "contract text")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(findings) != 1 || findings[0].Category != "Termination" {
		t.Errorf("unexpected findings: %+v", findings)
	}
}

func TestOllamaProvider_Analyze_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model runner crashed"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	_, err = provider.Analyze(context.Background(), "contract text")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model runner crashed") {
		t.Errorf("expected error message to carry the service error, got %v", err)
	}
}

func TestOllamaProvider_Analyze_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ollamaResponse{Model: "llama3.1", Response: "not json at all", Done: true}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	findings, err := provider.Analyze(context.Background(), "contract text")
	if err != nil {
		t.Fatalf("malformed payload must not be an error, got %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("expected zero findings, got %d", len(findings))
	}
}

func TestOllamaProvider_NoCredentialRequired(t *testing.T) {
	if _, err := NewOllamaProvider(Config{}); err != nil {
		t.Fatalf("ollama must not require a credential, got %v", err)
	}
}
