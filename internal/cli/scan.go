package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"contractscan/internal/analyze"
	"contractscan/internal/cache"
	"contractscan/internal/model"
	"contractscan/internal/pdf"
	"contractscan/internal/scan"
)

var (
	outJSON      string
	outMD        string
	scanTimeout  time.Duration
	providerName string
	modelName    string
	pdfService   string
	noCache      bool
	noFooter     bool
	useSample    bool
	httpProxy    string
	httpsProxy   string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Scan a contract file and report risky clauses",
	Long: `Scan analyzes a single contract to:
- Extract text from PDF files (plain text and Markdown are read directly)
- Detect risky clauses via a language model with a strict output schema
- Score the contract 0-100 (15/8/3 penalty per High/Medium/Low finding)
- Translate each risky clause into plain English

The provider API key is read from the environment:
  gemini: GEMINI_API_KEY, openai: OPENAI_API_KEY, ollama: none

Example:
  contractscan scan terms-of-service.pdf
  contractscan scan nda.txt --json report.json --md report.md
  contractscan scan --sample
  contractscan scan msa.pdf --provider openai --model gpt-4o-mini`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scanCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&providerName, "provider", "", "analysis provider (gemini, openai, ollama)")
	scanCmd.Flags().StringVar(&modelName, "model", "", "provider model name")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis response cache")
	scanCmd.Flags().BoolVar(&useSample, "sample", false, "scan the built-in sample contract instead of a file")

	// Transport flags
	scanCmd.Flags().StringVar(&pdfService, "pdf-service", "", "PDF extraction service URL")
	scanCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scanCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runScan(cmd *cobra.Command, args []string) error {
	if !useSample && len(args) == 0 {
		return fmt.Errorf("provide a contract file or use --sample")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	cfg := applyScanFlags(loadConfig())

	if verbose {
		if useSample {
			fmt.Fprintf(os.Stderr, "Scanning: built-in sample contract\n")
		} else {
			fmt.Fprintf(os.Stderr, "Scanning: %s\n", args[0])
		}
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.Analysis.Provider)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	scanner := newFileScanner(cfg, provider)

	var report *model.Report
	if useSample {
		report, err = scanner.ScanText(ctx, scan.SampleTitle, scan.SampleText)
	} else {
		report, err = scanner.ScanFile(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Detected %d findings\n", len(report.Findings))
		fmt.Fprintf(os.Stderr, "✓ Safety score: %d/100 (%s)\n", report.Score, report.Verdict)
		fmt.Fprintln(os.Stderr)
	}

	renderer := scan.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(report)

	return nil
}

// applyScanFlags overlays scan command flags onto the loaded configuration
func applyScanFlags(cfg *model.Config) *model.Config {
	if providerName != "" {
		cfg.Analysis.Provider = providerName
	}
	if modelName != "" {
		cfg.Analysis.Model = modelName
	}
	if pdfService != "" {
		cfg.PDF.ServiceURL = pdfService
	}
	if httpProxy != "" {
		cfg.Proxy.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.Proxy.HTTPSProxy = httpsProxy
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	cfg.Analysis.APIKey = apiKeyFromEnv(cfg.Analysis.Provider)
	cfg.Output.Verbose = verbose
	return cfg
}

// buildProvider creates the analysis provider, wrapped with the response
// cache when enabled.
func buildProvider(cfg *model.Config) (analyze.Provider, error) {
	provider, err := analyze.NewProvider(analyze.ConfigFromModel(cfg.Analysis, cfg.Proxy))
	if err != nil {
		return nil, err
	}

	if !cfg.Cache.Enabled {
		return provider, nil
	}

	store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	// TTL 0 lets each cache layer apply its own configured default.
	return analyze.NewCached(provider, store, cfg.Analysis.Model, 0), nil
}

func newFileScanner(cfg *model.Config, provider analyze.Provider) *scan.FileScanner {
	extractor := pdf.NewExtractor(pdf.NewRemoteReader(cfg.PDF.ServiceURL, cfg.PDF.Timeout))
	return scan.NewFileScanner(provider, extractor, cfg.Analysis.MaxContractChars, cfg.Analysis.Model)
}
