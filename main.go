package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/openclaw/qrforge/api"
	"github.com/openclaw/qrforge/config"
	"github.com/openclaw/qrforge/metrics"
	"github.com/openclaw/qrforge/notify"
	"github.com/openclaw/qrforge/qrgen"
	"github.com/openclaw/qrforge/render"
	"github.com/openclaw/qrforge/scan"
	"github.com/openclaw/qrforge/store"
)

var version = "v0.1.0"

func main() {
	// Load .env file if exists
	godotenv.Load()

	root := &cobra.Command{
		Use:          "qrforge",
		Short:        "Styled QR code generator with a web backend",
		SilenceUsage: true,
	}

	// --- serve command -------------------------------------------------------
	var configPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(serveCmd)

	// --- generate command ----------------------------------------------------
	root.AddCommand(newGenerateCmd())

	// --- decode command ------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "decode [image]",
		Short: "Decode a QR code from an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := scan.DecodeFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	})

	// --- history command -----------------------------------------------------
	var historyAddr string
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print the server's recent generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.OutOrStdout(), historyAddr+"/history")
		},
	}
	historyCmd.Flags().StringVar(&historyAddr, "addr", "http://localhost:5001", "Server HTTP address")
	root.AddCommand(historyCmd)

	// --- status command ------------------------------------------------------
	var statusAddr string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check the server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.OutOrStdout(), statusAddr+"/status")
		},
	}
	statusCmd.Flags().StringVar(&statusAddr, "addr", "http://localhost:5001", "Server HTTP address")
	root.AddCommand(statusCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrforge %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe is the main service entrypoint that wires all components together.
func runServe(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	// 2. Setup logger
	log, closeLog := newLogger(cfg, os.Stdout)
	defer closeLog.Close()
	slog.SetDefault(log)

	log.Info("starting qrforge", "version", version, "port", cfg.Port, "data_dir", cfg.DataDir)

	// 3. Open history store
	history, err := openHistory(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()
	log.Info("history ready", "backend", cfg.History.Backend, "limit", cfg.History.Limit)

	// 4. Create generation service
	m := metrics.New()
	webhook := notify.NewWebhookSender(cfg.WebhookURL, log)
	if webhook.Enabled() {
		log.Info("webhook enabled", "url", cfg.WebhookURL)
	}
	svc := qrgen.NewService(qrgen.Deps{
		Renderer: render.NewRenderer(cfg.FontPath, log),
		History:  history,
		Metrics:  m,
		Webhook:  webhook,
		Defaults: cfg.RenderOptions(),
		CacheTTL: cfg.CacheTTL.Duration,
		Log:      log,
	})
	defer svc.Close()

	// 5. Start HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Service:      svc,
			Metrics:      m,
			Log:          log,
			Version:      version,
			StartTime:    time.Now(),
			MaxBodyBytes: cfg.MaxBodyBytes,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.Info("qrforge is running", "url", fmt.Sprintf("http://localhost:%d/", cfg.Port))

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.Error("HTTP server error", "error", err)
		return err
	}

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

// newLogger builds the process logger. When log_file is set, output is
// also written to a size-rotated file.
func newLogger(cfg *config.Config, stdout io.Writer) (*slog.Logger, io.Closer) {
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	out := stdout
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			Compress:   true,
		}
		out = io.MultiWriter(stdout, rotated)
		closer = rotated
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: logLevel})), closer
}

func openHistory(cfg *config.Config) (store.History, error) {
	if cfg.History.Backend == "sqlite" {
		return store.NewSQLiteStore(cfg.HistoryDBPath(), cfg.History.Limit)
	}
	return store.NewMemoryStore(cfg.History.Limit), nil
}

// runGet fetches url from a running server and prints the body.
func runGet(w io.Writer, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to reach server at %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	fmt.Fprintln(w, string(body))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
