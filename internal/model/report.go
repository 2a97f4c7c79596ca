package model

import "time"

// Report represents the complete result of one contract scan
type Report struct {
	Title      string    `json:"title"`                 // Document title (filename without extension, or user-set)
	SourceFile string    `json:"source_file,omitempty"` // Path of the scanned file, when scanned from disk
	AnalyzedAt time.Time `json:"analyzed_at"`           // When the analysis completed

	Provider string `json:"provider"`        // Analysis provider (gemini, openai, ollama)
	Model    string `json:"model,omitempty"` // Provider model name

	Findings     []Finding    `json:"findings"`            // Detected risky clauses, in service order
	Score        int          `json:"score"`               // Safety score 0-100, higher is safer
	Distribution Distribution `json:"distribution"`        // Finding counts per level
	Verdict      string       `json:"verdict"`             // "safe", "caution" or "danger"
	Truncated    bool         `json:"truncated,omitempty"` // Input exceeded the analysis character limit
}

// Distribution counts findings per risk level; it drives the risk heatmap
type Distribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Total returns the number of findings across all levels
func (d Distribution) Total() int {
	return d.High + d.Medium + d.Low
}
