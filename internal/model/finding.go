package model

// RiskLevel classifies the severity of a detected clause
type RiskLevel string

const (
	LevelHigh   RiskLevel = "High"
	LevelMedium RiskLevel = "Medium"
	LevelLow    RiskLevel = "Low"
)

// Valid reports whether the level is one of the three values the analysis
// service is allowed to emit. "Safe" is a presentation concept only and is
// never a finding level.
func (l RiskLevel) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

// Finding represents a single risky clause detected in the contract.
// The ID is generated locally when the finding is received from the
// analysis service; all other fields come from the service and are
// guaranteed non-empty by the response schema.
type Finding struct {
	ID           string    `json:"id"`            // Locally generated, unique per process
	Phrase       string    `json:"phrase"`        // Short quote from the contract (service-generated, may be inexact)
	Level        RiskLevel `json:"level"`         // High, Medium or Low
	Category     string    `json:"category"`      // Free-text label, e.g. "Liability", "Privacy"
	Explanation  string    `json:"explanation"`   // Technical legal rationale
	PlainEnglish string    `json:"plainEnglish"`  // Simplified translation for non-lawyers
}
