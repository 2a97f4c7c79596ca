// Package analyze sends contract text to a remote risk-analysis service and
// parses the structured findings it returns.
package analyze

import (
	"context"
	"fmt"

	"contractscan/internal/model"
)

// DefaultMaxContractChars bounds the analyzed prefix of a contract. Longer
// documents are analyzed only up to this prefix: a cost/latency bound, not a
// correctness guarantee.
const DefaultMaxContractChars = 15000

// Provider defines the interface for risk-analysis backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Analyze identifies risky clauses in the contract text. The returned
	// findings carry locally generated identifiers; results are not
	// deterministic across calls with identical input.
	Analyze(ctx context.Context, contractText string) ([]model.Finding, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Config holds analysis client configuration
type Config struct {
	// Provider name: "gemini", "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for Gemini/OpenAI
	APIKey string

	// BaseURL for custom endpoints (tests, Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxContractChars bounds the analyzed prefix (DefaultMaxContractChars when 0)
	MaxContractChars int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:         "gemini",
		Timeout:          60,
		MaxContractChars: DefaultMaxContractChars,
	}
}

func (c Config) maxChars() int {
	if c.MaxContractChars > 0 {
		return c.MaxContractChars
	}
	return DefaultMaxContractChars
}

// TruncateContract returns the analyzable prefix of text and whether anything
// was cut. Truncation counts runes so multi-byte text is never split.
func TruncateContract(text string, limit int) (string, bool) {
	if limit <= 0 {
		limit = DefaultMaxContractChars
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	return string(runes[:limit]), true
}

// BuildPrompt constructs the instruction sent to the analysis service.
// The contract text must already be truncated by the caller.
func BuildPrompt(contractText string) string {
	return fmt.Sprintf(`You are an expert legal AI assistant. Your job is to analyze the following contract text and identify risky clauses.

For each risk found, provide:
1. The exact short quote from the text ("phrase").
2. A risk level ("High", "Medium", "Low").
3. A category (e.g., "Liability", "Privacy", "Termination", "Dispute", "IP").
4. A technical legal explanation ("explanation").
5. A "plainEnglish" translation simple enough for a 10-year-old to understand.

Analyze strictly. If the text is safe, return an empty risks array.
Respond with a JSON object of the form {"risks": [...]} and nothing else.

Contract Text:
"%s"`, contractText)
}
