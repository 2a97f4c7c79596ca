package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"contractscan/internal/pdf"
	"contractscan/internal/scan"
	"contractscan/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scan workflow as an HTTP service",
	Long: `Serve exposes one scan session over HTTP:

  GET  /healthz           liveness check
  GET  /api/state         current session snapshot
  PUT  /api/document      update document title and/or text
  POST /api/document/pdf  upload a PDF (Content-Type: application/pdf)
  POST /api/scan          analyze the current document

Example:
  contractscan serve
  contractscan serve --addr :9090 --provider ollama`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringVar(&providerName, "provider", "", "analysis provider (gemini, openai, ollama)")
	serveCmd.Flags().StringVar(&modelName, "model", "", "provider model name")
	serveCmd.Flags().StringVar(&pdfService, "pdf-service", "", "PDF extraction service URL")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis response cache")
	serveCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	serveCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := applyScanFlags(loadConfig())
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	checkCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if !provider.IsAvailable(checkCtx) {
		fmt.Fprintf(os.Stderr, "Warning: provider %s is not reachable yet, scans will fail until it is\n", provider.Name())
	}
	cancel()

	extractor := pdf.NewExtractor(pdf.NewRemoteReader(cfg.PDF.ServiceURL, cfg.PDF.Timeout))
	controller := scan.NewController(provider, extractor, cfg.Analysis.MaxContractChars)
	srv := server.New(controller, cfg.Server.MaxUploadSize)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // scans block until the provider answers
	}

	fmt.Fprintf(os.Stderr, "Listening on %s (provider: %s, pdf service: %s)\n",
		cfg.Server.Addr, cfg.Analysis.Provider, cfg.PDF.ServiceURL)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
