// Package score derives the safety score from a list of findings.
// Scoring is pure and deterministic: the same findings always produce the
// same score, independent of order.
package score

import "contractscan/internal/model"

// Per-level penalties subtracted from the 100-point baseline.
const (
	PenaltyHigh   = 15
	PenaltyMedium = 8
	PenaltyLow    = 3
)

// Verdict buckets: a score above 80 is considered safe, above 50 caution,
// anything else danger.
const (
	VerdictSafe    = "safe"
	VerdictCaution = "caution"
	VerdictDanger  = "danger"
)

// Score maps findings to a safety score in [0,100]. It starts at 100 and
// subtracts a fixed penalty per finding by level, clamping at 0. No upper
// clamp is needed: penalties only subtract from the baseline.
func Score(findings []model.Finding) int {
	penalty := 0
	for _, f := range findings {
		switch f.Level {
		case model.LevelHigh:
			penalty += PenaltyHigh
		case model.LevelMedium:
			penalty += PenaltyMedium
		case model.LevelLow:
			penalty += PenaltyLow
		}
	}

	result := 100 - penalty
	if result < 0 {
		result = 0
	}
	return result
}

// Distribution counts findings per risk level
func Distribution(findings []model.Finding) model.Distribution {
	var d model.Distribution
	for _, f := range findings {
		switch f.Level {
		case model.LevelHigh:
			d.High++
		case model.LevelMedium:
			d.Medium++
		case model.LevelLow:
			d.Low++
		}
	}
	return d
}

// Verdict buckets a score for presentation
func Verdict(s int) string {
	switch {
	case s > 80:
		return VerdictSafe
	case s > 50:
		return VerdictCaution
	default:
		return VerdictDanger
	}
}
