package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contractscan/internal/analyze"
	"contractscan/internal/model"
	"contractscan/internal/pdf"
)

// FileScanner scans contract files from disk through the same workflow as
// an interactive session. Each scan runs in its own session, so a
// FileScanner is safe for concurrent use by batch workers.
type FileScanner struct {
	provider  analyze.Provider
	extractor *pdf.Extractor
	maxChars  int
	model     string
}

// NewFileScanner creates a scanner for disk files
func NewFileScanner(provider analyze.Provider, extractor *pdf.Extractor, maxChars int, modelName string) *FileScanner {
	return &FileScanner{
		provider:  provider,
		extractor: extractor,
		maxChars:  maxChars,
		model:     modelName,
	}
}

// ScanFile reads a contract from disk, analyzes it and returns a report.
// PDF files go through text extraction; anything else is read as plain text.
func (s *FileScanner) ScanFile(ctx context.Context, path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contract file: %w", err)
	}

	controller := NewController(s.provider, s.extractor, s.maxChars)
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if err := controller.LoadPDF(ctx, base, data); err != nil {
			return nil, fmt.Errorf("load %s: %w", base, err)
		}
	} else {
		controller.SetTitle(strings.TrimSuffix(base, filepath.Ext(base)))
		controller.SetText(string(data))
	}

	if err := controller.Scan(ctx); err != nil {
		return nil, err
	}

	report := BuildReport(controller.Snapshot(), s.provider.Name(), s.model)
	report.SourceFile = path
	return report, nil
}

// ScanText analyzes already-loaded contract text and returns a report
func (s *FileScanner) ScanText(ctx context.Context, title, text string) (*model.Report, error) {
	controller := NewController(s.provider, s.extractor, s.maxChars)
	controller.SetTitle(title)
	controller.SetText(text)

	if err := controller.Scan(ctx); err != nil {
		return nil, err
	}

	return BuildReport(controller.Snapshot(), s.provider.Name(), s.model), nil
}

// BuildReport converts a session snapshot into a standalone report
func BuildReport(state State, provider, modelName string) *model.Report {
	return &model.Report{
		Title:        state.Title,
		AnalyzedAt:   time.Now().UTC(),
		Provider:     provider,
		Model:        modelName,
		Findings:     state.Findings,
		Score:        state.Score,
		Distribution: state.Distribution,
		Verdict:      state.Verdict,
		Truncated:    state.Truncated,
	}
}
