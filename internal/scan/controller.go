package scan

import (
	"context"
	"errors"
	"strings"
	"sync"

	"contractscan/internal/analyze"
	"contractscan/internal/model"
	"contractscan/internal/pdf"
	"contractscan/internal/score"
)

// Phase is the current step of the scan workflow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseExtracting Phase = "extracting"
	PhaseAnalyzing  Phase = "analyzing"
	PhaseReady      Phase = "ready"
	PhaseFailed     Phase = "failed"
)

var (
	// ErrBusy is returned when a scan or extraction is already in flight.
	ErrBusy = errors.New("a scan is already in progress")

	// ErrEmptyDocument is returned when a scan is requested with no text.
	ErrEmptyDocument = errors.New("document text is empty")

	// ErrNotPDF is returned for uploads that are not PDF documents.
	ErrNotPDF = errors.New("file is not a PDF document")
)

// State is a point-in-time snapshot of a scan session.
type State struct {
	Phase        Phase              `json:"phase"`
	Title        string             `json:"title"`
	Text         string             `json:"text"`
	Findings     []model.Finding    `json:"findings"`
	Score        int                `json:"score"`
	Distribution model.Distribution `json:"distribution"`
	Verdict      string             `json:"verdict"`
	LastError    string             `json:"lastError,omitempty"`
	Truncated    bool               `json:"truncated"`
	Stale        bool               `json:"stale"`
}

// Controller owns one scan session: the current document, the workflow
// phase, and the latest analysis result. Only one extraction or analysis
// runs at a time; concurrent requests get ErrBusy instead of queueing.
type Controller struct {
	provider  analyze.Provider
	extractor *pdf.Extractor
	maxChars  int

	mu        sync.Mutex
	phase     Phase
	title     string
	text      string
	findings  []model.Finding
	score     int
	lastError string
	truncated bool
	stale     bool

	// revision counts document text changes. An analysis started at one
	// revision and finished at another analyzed stale text; the result is
	// kept but flagged.
	revision uint64
}

// NewController creates a scan session seeded with the sample contract
func NewController(provider analyze.Provider, extractor *pdf.Extractor, maxChars int) *Controller {
	if maxChars <= 0 {
		maxChars = analyze.DefaultMaxContractChars
	}
	return &Controller{
		provider:  provider,
		extractor: extractor,
		maxChars:  maxChars,
		phase:     PhaseIdle,
		title:     SampleTitle,
		text:      SampleText,
		score:     100,
	}
}

// SetTitle replaces the document title
func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
}

// SetText replaces the document text. Editing during an in-flight analysis
// is allowed; the analysis finishes against the old text and its result is
// marked stale.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.text {
		return
	}
	c.text = text
	c.revision++
}

// LoadPDF extracts text from an uploaded PDF and makes it the current
// document, deriving the title from the filename. On extraction failure the
// previous document is left untouched.
func (c *Controller) LoadPDF(ctx context.Context, filename string, data []byte) error {
	if !pdf.IsPDF(data) {
		return ErrNotPDF
	}
	if c.extractor == nil {
		return pdf.ErrNotReady
	}

	c.mu.Lock()
	if c.phase == PhaseExtracting || c.phase == PhaseAnalyzing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.phase = PhaseExtracting
	c.mu.Unlock()

	text, err := c.extractor.Extract(ctx, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseIdle
	if err != nil {
		return err
	}

	c.text = text
	c.title = strings.TrimSuffix(filename, ".pdf")
	c.revision++
	return nil
}

// Scan analyzes the current document text and stores the result. It blocks
// until the analysis completes; the session is observable in the analyzing
// phase meanwhile. A second Scan during that window returns ErrBusy.
func (c *Controller) Scan(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == PhaseExtracting || c.phase == PhaseAnalyzing {
		c.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(c.text) == "" {
		c.mu.Unlock()
		return ErrEmptyDocument
	}

	// Entry reset: score back to 100, previous findings and error cleared.
	c.phase = PhaseAnalyzing
	c.findings = nil
	c.score = 100
	c.lastError = ""
	c.stale = false

	input, truncated := analyze.TruncateContract(c.text, c.maxChars)
	c.truncated = truncated
	startRev := c.revision
	c.mu.Unlock()

	findings, err := c.provider.Analyze(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = c.revision != startRev

	if err != nil {
		c.phase = PhaseFailed
		c.findings = nil
		c.lastError = err.Error()
		return err
	}

	c.phase = PhaseReady
	c.findings = findings
	c.score = score.Score(findings)
	return nil
}

// Snapshot returns a copy of the current session state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	findings := make([]model.Finding, len(c.findings))
	copy(findings, c.findings)

	return State{
		Phase:        c.phase,
		Title:        c.title,
		Text:         c.text,
		Findings:     findings,
		Score:        c.score,
		Distribution: score.Distribution(c.findings),
		Verdict:      score.Verdict(c.score),
		LastError:    c.lastError,
		Truncated:    c.truncated,
		Stale:        c.stale,
	}
}
