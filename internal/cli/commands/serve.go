package commands

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/leapstack-labs/pbiassist/internal/cli/config"
	"github.com/leapstack-labs/pbiassist/internal/server"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command. Port, watch directory,
// upload limit and origins are read from the loaded config, where their
// flags are merged.
type ServeOptions struct {
	Open bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis HTTP API",
		Long: `Start a local HTTP server that extracts and analyzes uploaded exports.

Endpoints:
  POST /api/upload          upload an export (multipart field "file" or raw body)
  GET  /api/model           extracted model tables
  GET  /api/model/summary   model summary
  GET  /api/analysis        best-practices analysis
  GET  /api/graph           measure dependency graph (?format=json|dot|mermaid)
  GET  /api/rules           rule catalogue
  GET  /api/events          snapshot changes as Server-Sent Events

Every successful upload replaces the current model. With --watch-dir, exports
written to that directory are loaded the same way.`,
		Example: `  # Serve on the default port
  pbiassist serve

  # Reload whenever DAX Studio saves an export
  pbiassist serve --port 9000 --watch-dir ./exports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "Port to serve on")
	cmd.Flags().String("watch-dir", "", "Directory to watch for new exports")
	cmd.Flags().Int("max-upload-mb", config.DefaultMaxUploadMB, "Maximum upload size in MiB")
	cmd.Flags().StringSlice("allowed-origins", nil, "CORS origins (default: *)")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Open the health endpoint in a browser")

	_ = cmd.MarkFlagDirname("watch-dir")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if dir := cfg.Server.WatchDir; dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("watch directory %s is not a directory", dir)
		}
	}

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		WatchDir:       cfg.Server.WatchDir,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Lint:           cfg.AnalyzerConfig(),
		Logger:         logger,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if opts.Open {
		go openBrowser(url + "/healthz")
	}

	w := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(w, "Serving on %s\n", url)
	if cfg.Server.WatchDir != "" {
		_, _ = fmt.Fprintf(w, "Watching %s for exports\n", cfg.Server.WatchDir)
	}
	_, _ = fmt.Fprintln(w, "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
