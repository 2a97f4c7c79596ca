package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractscan/internal/analyze"
	"contractscan/internal/model"
	"contractscan/internal/pdf"
	"contractscan/internal/scan"
)

type fakeProvider struct {
	findings []model.Finding
	err      error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *fakeProvider) Analyze(ctx context.Context, contractText string) ([]model.Finding, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.findings, nil
}

type fakeReader struct {
	text string
	err  error
}

func (r *fakeReader) Open(ctx context.Context, data []byte) (pdf.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &fakeDoc{text: r.text}, nil
}

func (r *fakeReader) Ready(ctx context.Context) bool { return r.err == nil }

type fakeDoc struct{ text string }

func (d *fakeDoc) PageCount() int                                         { return 1 }
func (d *fakeDoc) PageText(ctx context.Context, page int) (string, error) { return d.text, nil }
func (d *fakeDoc) Close() error                                           { return nil }

func newTestServer(provider *fakeProvider, reader pdf.Reader) *Server {
	controller := scan.NewController(provider, pdf.NewExtractor(reader), 0)
	return New(controller, 1<<20)
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) scan.State {
	t.Helper()
	var state scan.State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	return state
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_GetState(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, scan.PhaseIdle, state.Phase)
	assert.Equal(t, scan.SampleTitle, state.Title)
	assert.Equal(t, 100, state.Score)
}

func TestServer_UpdateDocument_PartialEdit(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{})

	body := bytes.NewBufferString(`{"title": "My NDA"}`)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("PUT", "/api/document", body))

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, "My NDA", state.Title)
	assert.Equal(t, scan.SampleText, state.Text, "text must be untouched by a title-only edit")
}

func TestServer_UpdateDocument_BadPayload(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("PUT", "/api/document", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Scan_Success(t *testing.T) {
	provider := &fakeProvider{findings: []model.Finding{
		{ID: "f-1", Phrase: "indemnify", Level: model.LevelMedium, Category: "Indemnification", Explanation: "E", PlainEnglish: "P"},
	}}
	srv := newTestServer(provider, &fakeReader{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/scan", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, scan.PhaseReady, state.Phase)
	assert.Equal(t, 92, state.Score)
	assert.Len(t, state.Findings, 1)
}

func TestServer_Scan_EmptyDocument(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{})

	body := bytes.NewBufferString(`{"text": "   "}`)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("PUT", "/api/document", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/scan", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Scan_AnalysisFailureReturnsSnapshot(t *testing.T) {
	provider := &fakeProvider{err: &analyze.Error{
		Kind:    analyze.KindRateLimited,
		Message: "too many requests: wait a minute and try again",
		Status:  429,
	}}
	srv := newTestServer(provider, &fakeReader{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("POST", "/api/scan", nil))

	require.Equal(t, http.StatusOK, rec.Code, "analysis failures are session state, not transport errors")
	state := decodeState(t, rec)
	assert.Equal(t, scan.PhaseFailed, state.Phase)
	assert.Contains(t, state.LastError, "wait a minute")
	assert.Empty(t, state.Findings)
	assert.Equal(t, 100, state.Score)
}

func TestServer_UploadPDF(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{text: "Extracted contract."})

	req := httptest.NewRequest("POST", "/api/document/pdf", bytes.NewReader([]byte("%PDF-1.7 fake")))
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("X-Filename", "supplier-agreement.pdf")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, "supplier-agreement", state.Title)
	assert.Equal(t, "Extracted contract.", state.Text)
}

func TestServer_UploadPDF_WrongContentType(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{})

	req := httptest.NewRequest("POST", "/api/document/pdf", bytes.NewReader([]byte("%PDF-1.7 fake")))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_UploadPDF_NotAPDF(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{})

	req := httptest.NewRequest("POST", "/api/document/pdf", bytes.NewReader([]byte("just text")))
	req.Header.Set("Content-Type", "application/pdf")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_UploadPDF_ExtractionFailure(t *testing.T) {
	srv := newTestServer(&fakeProvider{}, &fakeReader{err: errors.New("bad xref")})

	req := httptest.NewRequest("POST", "/api/document/pdf", bytes.NewReader([]byte("%PDF-1.7 fake")))
	req.Header.Set("Content-Type", "application/pdf")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_UploadPDF_ServiceNotReady(t *testing.T) {
	controller := scan.NewController(&fakeProvider{}, nil, 0)
	srv := New(controller, 1<<20)

	req := httptest.NewRequest("POST", "/api/document/pdf", bytes.NewReader([]byte("%PDF-1.7 fake")))
	req.Header.Set("Content-Type", "application/pdf")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_UploadPDF_TooLarge(t *testing.T) {
	controller := scan.NewController(&fakeProvider{}, pdf.NewExtractor(&fakeReader{text: "x"}), 0)
	srv := New(controller, 10)

	req := httptest.NewRequest("POST", "/api/document/pdf", bytes.NewReader([]byte("%PDF-1.7 much too large")))
	req.Header.Set("Content-Type", "application/pdf")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
