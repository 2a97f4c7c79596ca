package model

import "time"

// Config holds the complete application configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	PDF       PDFConfig       `yaml:"pdf" mapstructure:"pdf"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Proxy     ProxyConfig     `yaml:"proxy" mapstructure:"proxy"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig configures the risk-analysis client
type AnalysisConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // gemini, openai, ollama
	Model    string `yaml:"model" mapstructure:"model"`       // provider-specific model name
	APIKey   string `yaml:"-" mapstructure:"-"`               // never read from file, env only
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"` // custom endpoint (e.g. Ollama)
	Timeout  int    `yaml:"timeout" mapstructure:"timeout"`   // seconds

	// MaxContractChars bounds the analyzed prefix of the contract. Longer
	// documents are analyzed only up to this prefix (cost/latency bound).
	MaxContractChars int `yaml:"max_contract_chars" mapstructure:"max_contract_chars"`
}

// PDFConfig configures the external text-extraction service
type PDFConfig struct {
	ServiceURL string        `yaml:"service_url" mapstructure:"service_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig configures the analysis response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig bounds outbound analysis calls in batch mode
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ServerConfig configures serve mode
type ServerConfig struct {
	Addr          string `yaml:"addr" mapstructure:"addr"`
	MaxUploadSize int64  `yaml:"max_upload_size" mapstructure:"max_upload_size"` // bytes
}

// ProxyConfig configures outbound HTTP proxying for provider calls
type ProxyConfig struct {
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Provider:         "gemini",
			Timeout:          60,
			MaxContractChars: 15000,
		},
		PDF: PDFConfig{
			ServiceURL: "http://localhost:8081",
			Timeout:    60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0.5,
			Burst:             2,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxUploadSize: 20 << 20,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
