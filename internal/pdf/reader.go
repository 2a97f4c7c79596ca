package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotReady indicates the extraction backend is not reachable yet.
var ErrNotReady = errors.New("pdf service not ready")

// ExtractionError wraps a failure to pull text out of a document. Hint is a
// user-facing explanation; Err carries the underlying cause when there is one.
type ExtractionError struct {
	Hint string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Hint, e.Err)
	}
	return e.Hint
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Reader opens PDF documents for text extraction.
type Reader interface {
	// Open parses the raw bytes of a PDF and returns a page-addressable
	// document. The caller must Close the document when done.
	Open(ctx context.Context, data []byte) (Document, error)

	// Ready reports whether the backend can accept documents.
	Ready(ctx context.Context) bool
}

// Document is an open PDF with per-page text access.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageText returns the text of a single page, 1-based. Text items on
	// the page are joined with single spaces.
	PageText(ctx context.Context, page int) (string, error)

	// Close releases backend resources held for the document.
	Close() error
}

// Extractor turns whole PDF files into plain contract text.
type Extractor struct {
	reader Reader
}

// NewExtractor creates an extractor on top of a reader backend
func NewExtractor(reader Reader) *Extractor {
	return &Extractor{reader: reader}
}

// Extract parses data as a PDF and returns its full text, pages separated
// by blank lines. A document with no extractable text is an error: scanned
// PDFs carry images, not text, and would silently analyze as empty.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	doc, err := e.reader.Open(ctx, data)
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			return "", err
		}
		return "", &ExtractionError{
			Hint: "failed to read the PDF file: it may be corrupted or password-protected",
			Err:  err,
		}
	}
	defer func() { _ = doc.Close() }()

	pages := make([]string, 0, doc.PageCount())
	for i := 1; i <= doc.PageCount(); i++ {
		text, err := doc.PageText(ctx, i)
		if err != nil {
			return "", &ExtractionError{
				Hint: fmt.Sprintf("failed to extract text from page %d", i),
				Err:  err,
			}
		}
		pages = append(pages, text)
	}

	full := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if full == "" {
		return "", &ExtractionError{
			Hint: "no extractable text found: the PDF may contain scanned images only",
		}
	}

	return full, nil
}

// IsPDF reports whether data starts with the PDF file signature.
func IsPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
