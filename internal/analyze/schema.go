package analyze

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"contractscan/internal/model"
)

// SchemaNode describes the structured-output shape the service is instructed
// to conform its JSON response to. Type names follow the Gemini schema
// dialect ("OBJECT", "ARRAY", "STRING").
type SchemaNode struct {
	Type       string                `json:"type"`
	Enum       []string              `json:"enum,omitempty"`
	Properties map[string]SchemaNode `json:"properties,omitempty"`
	Items      *SchemaNode           `json:"items,omitempty"`
	Required   []string              `json:"required,omitempty"`
}

// ResponseSchema is the strict output contract: an object with a "risks"
// array whose items carry exactly the five finding fields, all required,
// with level constrained to the three-value enumeration.
func ResponseSchema() SchemaNode {
	return SchemaNode{
		Type: "OBJECT",
		Properties: map[string]SchemaNode{
			"risks": {
				Type: "ARRAY",
				Items: &SchemaNode{
					Type: "OBJECT",
					Properties: map[string]SchemaNode{
						"phrase":       {Type: "STRING"},
						"level":        {Type: "STRING", Enum: []string{"High", "Medium", "Low"}},
						"category":     {Type: "STRING"},
						"explanation":  {Type: "STRING"},
						"plainEnglish": {Type: "STRING"},
					},
					Required: []string{"phrase", "level", "category", "explanation", "plainEnglish"},
				},
			},
		},
	}
}

// analysisPayload mirrors the JSON the service is instructed to return
type analysisPayload struct {
	Risks []riskItem `json:"risks"`
}

type riskItem struct {
	Phrase       string `json:"phrase"`
	Level        string `json:"level"`
	Category     string `json:"category"`
	Explanation  string `json:"explanation"`
	PlainEnglish string `json:"plainEnglish"`
}

// ParseOutcome names what happened to the structured payload, so malformed
// nesting is a testable case instead of an implicit value.
type ParseOutcome int

const (
	// ParsedOK: payload decoded into one or more findings
	ParsedOK ParseOutcome = iota
	// ParsedEmpty: payload absent or contained zero risks
	ParsedEmpty
	// ParseFailed: payload present but not the expected shape
	ParseFailed
)

func (o ParseOutcome) String() string {
	switch o {
	case ParsedOK:
		return "ok"
	case ParsedEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// ParsePayload decodes the service's structured text payload into findings,
// assigning each one a fresh unique identifier. An absent or malformed
// payload yields zero findings rather than an error; the outcome tags the
// case so callers can log it.
func ParsePayload(raw string) ([]model.Finding, ParseOutcome) {
	if strings.TrimSpace(raw) == "" {
		return nil, ParsedEmpty
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ParseFailed
	}
	if len(payload.Risks) == 0 {
		return nil, ParsedEmpty
	}

	findings := make([]model.Finding, 0, len(payload.Risks))
	for _, r := range payload.Risks {
		level := model.RiskLevel(r.Level)
		if !level.Valid() || r.Phrase == "" || r.Category == "" || r.Explanation == "" || r.PlainEnglish == "" {
			// The schema marks every field required; a violation means the
			// whole payload is suspect.
			return nil, ParseFailed
		}
		findings = append(findings, model.Finding{
			ID:           uuid.NewString(),
			Phrase:       r.Phrase,
			Level:        level,
			Category:     r.Category,
			Explanation:  r.Explanation,
			PlainEnglish: r.PlainEnglish,
		})
	}

	return findings, ParsedOK
}
