package pdf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newSidecar builds an httptest server that mimics the PDF sidecar with the
// given page contents.
func newSidecar(t *testing.T, pages [][]string, deleted *bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/octet-stream" {
			t.Errorf("expected octet-stream upload, got %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(uploadResponse{ID: "doc-1", Pages: len(pages)})
	})
	mux.HandleFunc("/v1/documents/doc-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			if deleted != nil {
				*deleted = true
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
	})
	for i, items := range pages {
		items := items
		mux.HandleFunc(fmt.Sprintf("/v1/documents/doc-1/pages/%d", i+1), func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(pageResponse{Items: items})
		})
	}

	return httptest.NewServer(mux)
}

func TestRemoteReader_OpenAndPageText(t *testing.T) {
	deleted := false
	server := newSidecar(t, [][]string{
		{"This", "Agreement", "governs", "use."},
		{"Either", "party", "may", "terminate."},
	}, &deleted)
	defer server.Close()

	reader := NewRemoteReader(server.URL, 5*time.Second)
	doc, err := reader.Open(context.Background(), []byte("%PDF-1.7 fake"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if doc.PageCount() != 2 {
		t.Errorf("expected 2 pages, got %d", doc.PageCount())
	}

	text, err := doc.PageText(context.Background(), 1)
	if err != nil {
		t.Fatalf("PageText failed: %v", err)
	}
	if text != "This Agreement governs use." {
		t.Errorf("page items should join with spaces, got %q", text)
	}

	if err := doc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !deleted {
		t.Error("Close should delete the remote document")
	}
}

func TestRemoteReader_ExtractsFullDocument(t *testing.T) {
	server := newSidecar(t, [][]string{
		{"First", "page."},
		{"Second", "page."},
	}, nil)
	defer server.Close()

	extractor := NewExtractor(NewRemoteReader(server.URL, 5*time.Second))
	text, err := extractor.Extract(context.Background(), []byte("%PDF-1.7 fake"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if text != "First page.\n\nSecond page." {
		t.Errorf("unexpected extracted text: %q", text)
	}
}

func TestRemoteReader_NotReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "starting", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	reader := NewRemoteReader(server.URL, time.Second)
	if reader.Ready(context.Background()) {
		t.Error("expected Ready to be false")
	}

	_, err := reader.Open(context.Background(), []byte("%PDF-1.7 fake"))
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestRemoteReader_RejectedUpload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "encrypted documents are not supported"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	reader := NewRemoteReader(server.URL, time.Second)
	_, err := reader.Open(context.Background(), []byte("%PDF-1.7 fake"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if want := "encrypted documents are not supported"; !strings.Contains(err.Error(), want) {
		t.Errorf("error should carry the service message, got %v", err)
	}
}

func TestRemoteDocument_PageOutOfRange(t *testing.T) {
	server := newSidecar(t, [][]string{{"only page"}}, nil)
	defer server.Close()

	reader := NewRemoteReader(server.URL, time.Second)
	doc, err := reader.Open(context.Background(), []byte("%PDF-1.7 fake"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() { _ = doc.Close() }()

	if _, err := doc.PageText(context.Background(), 2); err == nil {
		t.Error("expected error for out-of-range page")
	}
	if _, err := doc.PageText(context.Background(), 0); err == nil {
		t.Error("expected error for page zero")
	}
}
