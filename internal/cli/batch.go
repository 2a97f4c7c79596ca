package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"contractscan/internal/scan"
	"contractscan/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	rateRPS      float64
	rateBurst    int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-list-file>",
	Short: "Scan multiple contracts in parallel",
	Long: `Batch scans many contracts concurrently:
- Point it at a directory (every .pdf, .txt and .md file inside is scanned)
  or at a list file with one contract path per line
- Contracts are processed in parallel with a configurable worker count
- Outbound analysis calls share one rate limiter across workers
- Each contract gets its own JSON and Markdown report

Example:
  contractscan batch ./contracts
  contractscan batch contracts.txt --concurrency 4 --output-dir ./reports
  contractscan batch ./contracts --rate 0.5 --burst 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./contractscan-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&rateRPS, "rate", 0, "analysis calls per second (0 uses the configured default)")
	batchCmd.Flags().IntVar(&rateBurst, "burst", 0, "analysis call burst size (0 uses the configured default)")

	// Inherit flags from scan command
	batchCmd.Flags().StringVar(&providerName, "provider", "", "analysis provider (gemini, openai, ollama)")
	batchCmd.Flags().StringVar(&modelName, "model", "", "provider model name")
	batchCmd.Flags().StringVar(&pdfService, "pdf-service", "", "PDF extraction service URL")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis response cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := applyScanFlags(loadConfig())
	if rateRPS > 0 {
		cfg.RateLimit.RequestsPerSecond = rateRPS
	}
	if rateBurst > 0 {
		cfg.RateLimit.Burst = rateBurst
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Contractscan Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Provider:     %s\n", cfg.Analysis.Provider)
	fmt.Fprintf(os.Stderr, "  Rate limit:   %.2f rps (burst %d)\n", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	fmt.Fprintf(os.Stderr, "\n")

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	scanner := newFileScanner(cfg, provider)

	paths, err := collectInput(input)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Found %d contracts\n", len(paths))
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	processor := worker.NewBatchProcessor(scanner, concurrency, limiter)

	fmt.Fprintf(os.Stderr, "⚙️  Scanning with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessPaths(ctx, paths)

	renderer := scan.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Err() != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Err())
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Report.Title)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (score: %d/100, %s)\n", result.Report.Title, result.Report.Score, result.Report.Verdict)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d contracts\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d contracts failed", failureCount, len(results))
	}
	return nil
}

// collectInput resolves a batch argument: a directory is walked for
// contract files, anything else is read as a list file.
func collectInput(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if info.IsDir() {
		paths, err := worker.CollectContractFiles(input)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no contract files (.pdf, .txt, .md) found in %s", input)
		}
		return paths, nil
	}

	paths, err := worker.ReadPathsFromFile(input)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no contract paths listed in %s", input)
	}
	return paths, nil
}

// sanitizeFilename sanitizes a report title for use as a filename
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(strings.TrimSpace(s))

	if s == "" {
		s = "contract"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
