package analyze

import (
	"fmt"
	"strings"

	"contractscan/internal/model"
)

// NewProvider creates an analysis provider based on configuration.
// An empty provider name selects Gemini, matching the hosted deployment.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "gemini", "":
		return NewGeminiProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown analysis provider: %s (supported: gemini, openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.AnalysisConfig to analyze.Config
func ConfigFromModel(mc model.AnalysisConfig, proxy model.ProxyConfig) Config {
	return Config{
		Provider:         mc.Provider,
		Model:            mc.Model,
		APIKey:           mc.APIKey,
		BaseURL:          mc.BaseURL,
		Timeout:          mc.Timeout,
		MaxContractChars: mc.MaxContractChars,
		HTTPProxy:        proxy.HTTPProxy,
		HTTPSProxy:       proxy.HTTPSProxy,
	}
}
