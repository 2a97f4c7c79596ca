package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"contractscan/internal/model"
)

// Renderer writes scan reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a report renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Contract Risk Report: %s\n\n", report.Title))
	sb.WriteString(fmt.Sprintf("**Safety Score:** %d/100 (%s)\n\n", report.Score, report.Verdict))
	sb.WriteString(fmt.Sprintf("**Analyzed:** %s with %s", report.AnalyzedAt.Format("2006-01-02 15:04 UTC"), report.Provider))
	if report.Model != "" {
		sb.WriteString(fmt.Sprintf("/%s", report.Model))
	}
	sb.WriteString("\n\n")

	if report.Truncated {
		sb.WriteString("> Note: the document exceeded the analysis limit; only the beginning was analyzed.\n\n")
	}

	sb.WriteString("## Risk Distribution\n\n")
	sb.WriteString("| High | Medium | Low |\n")
	sb.WriteString("|------|--------|-----|\n")
	sb.WriteString(fmt.Sprintf("| %d | %d | %d |\n\n",
		report.Distribution.High, report.Distribution.Medium, report.Distribution.Low))

	if len(report.Findings) == 0 {
		sb.WriteString("No risky clauses were detected.\n")
	} else {
		sb.WriteString("## Findings\n\n")
		for i, f := range report.Findings {
			sb.WriteString(fmt.Sprintf("### %d. [%s] %s\n\n", i+1, f.Level, f.Category))
			sb.WriteString(fmt.Sprintf("> \"%s\"\n\n", f.Phrase))
			sb.WriteString(fmt.Sprintf("**Legal analysis:** %s\n\n", f.Explanation))
			sb.WriteString(fmt.Sprintf("**Plain English:** %s\n\n", f.PlainEnglish))
		}
	}

	if r.includeFooter {
		sb.WriteString("---\n\n")
		sb.WriteString("*Generated by contractscan. This is automated risk triage, not legal advice.*\n")
	}

	return sb.String()
}

// RenderSummary prints a short result line per scan to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\n%s\n", report.Title)
	fmt.Printf("  Safety score: %d/100 (%s)\n", report.Score, report.Verdict)
	fmt.Printf("  Findings: %d high, %d medium, %d low\n",
		report.Distribution.High, report.Distribution.Medium, report.Distribution.Low)

	for _, f := range report.Findings {
		fmt.Printf("  [%s] %s: %q\n", f.Level, f.Category, f.Phrase)
	}

	if report.Truncated {
		fmt.Printf("  Note: document was longer than the analysis limit; only the beginning was analyzed.\n")
	}
}
