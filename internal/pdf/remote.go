package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RemoteReader extracts PDF text through a sidecar HTTP service. The sidecar
// owns the actual PDF parsing; this adapter only moves bytes and text.
type RemoteReader struct {
	baseURL    string
	httpClient *http.Client
}

type uploadResponse struct {
	ID    string `json:"id"`
	Pages int    `json:"pages"`
}

type pageResponse struct {
	Items []string `json:"items"`
}

type remoteAPIError struct {
	Error string `json:"error"`
}

// NewRemoteReader creates a reader backed by a PDF sidecar service
func NewRemoteReader(baseURL string, timeout time.Duration) *RemoteReader {
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &RemoteReader{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ready checks the sidecar's health endpoint
func (r *RemoteReader) Ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Open uploads the PDF bytes to the sidecar and returns a handle to the
// parsed document.
func (r *RemoteReader) Open(ctx context.Context, data []byte) (Document, error) {
	if !r.Ready(ctx) {
		return nil, ErrNotReady
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/documents", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("pdf service rejected document: %s", r.errorText(resp))
	}

	var upload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if upload.ID == "" {
		return nil, fmt.Errorf("pdf service returned no document id")
	}

	return &remoteDocument{reader: r, id: upload.ID, pages: upload.Pages}, nil
}

func (r *RemoteReader) errorText(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.Status
	}
	var apiErr remoteAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return resp.Status
}

// remoteDocument is a handle to a document parsed by the sidecar.
type remoteDocument struct {
	reader *RemoteReader
	id     string
	pages  int
}

func (d *remoteDocument) PageCount() int {
	return d.pages
}

// PageText fetches one page's text items and joins them with spaces.
func (d *remoteDocument) PageText(ctx context.Context, page int) (string, error) {
	if page < 1 || page > d.pages {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", page, d.pages)
	}

	endpoint := fmt.Sprintf("%s/v1/documents/%s/pages/%d", d.reader.baseURL, url.PathEscape(d.id), page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create page request: %w", err)
	}

	resp, err := d.reader.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pdf service error for page %d: %s", page, d.reader.errorText(resp))
	}

	var pr pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decode page response: %w", err)
	}

	return strings.Join(pr.Items, " "), nil
}

// Close tells the sidecar to drop the parsed document. Best effort: the
// sidecar expires stale documents on its own.
func (d *remoteDocument) Close() error {
	endpoint := fmt.Sprintf("%s/v1/documents/%s", d.reader.baseURL, url.PathEscape(d.id))
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := d.reader.httpClient.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
