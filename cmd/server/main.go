package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/grokmcp/internal/api"
	"github.com/dgallion1/grokmcp/internal/articles"
	"github.com/dgallion1/grokmcp/internal/config"
	"github.com/dgallion1/grokmcp/internal/corpus"
	"github.com/dgallion1/grokmcp/internal/grokipedia"
	"github.com/dgallion1/grokmcp/internal/logging"
	"github.com/dgallion1/grokmcp/internal/mcpserver"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grokmcp",
		Short:         "MCP server for Grokipedia articles",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringP("transport", "t", config.TransportStdio, "Transport: stdio, sse or streamable-http (MCP_TRANSPORT takes precedence)")
	cmd.Flags().String("host", "0.0.0.0", "Host to bind HTTP transports to")
	cmd.Flags().IntP("port", "p", 8888, "Port for HTTP transports")
	cmd.Flags().String("env-file", ".env", "Path to the environment variables file")
	cmd.Flags().String("corpus", "", "Serve markdown articles from this directory instead of the API")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotenv(envFile); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	cfg := config.Load()
	applyFlags(cmd, &cfg)

	// stdout carries the stdio transport, so logs always go to stderr.
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		backend articles.Backend
		stats   *grokipedia.Stats
	)
	if cfg.CorpusDir != "" {
		store, err := corpus.Open(cfg.CorpusDir)
		if err != nil {
			log.Error("failed to open corpus", "dir", cfg.CorpusDir, "error", err)
			return err
		}
		log.Info("serving local corpus", "dir", cfg.CorpusDir, "pages", store.Len())
		backend = store
	} else {
		stats = grokipedia.NewStats(cfg.StatsWindow)
		client := grokipedia.NewClient(grokipedia.Options{
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryWait:  cfg.RetryWait,
			UserAgent:  cfg.UserAgent,
			Stats:      stats,
		})
		defer client.Close()
		backend = client
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := mcpserver.New(articles.NewService(backend), log, mcpserver.Options{
		Version: version,
		Metrics: mcpserver.NewMetrics(reg),
	})

	if !cfg.IsHTTP() {
		log.Info("starting grokmcp", "transport", cfg.Transport, "version", version)
		if err := srv.RunStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("server error", "error", err)
			return err
		}
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting %s server on %s\n", cfg.Transport, cfg.Addr())
	return serveHTTP(ctx, cfg, api.NewServer(srv.MCP(), stats, reg, log, cfg), log)
}

// applyFlags lets explicitly set flags override the environment. The
// transport flag only applies when MCP_TRANSPORT is unset.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if os.Getenv("MCP_TRANSPORT") == "" {
		t, _ := flags.GetString("transport")
		cfg.Transport = strings.ToLower(t)
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("corpus") {
		cfg.CorpusDir, _ = flags.GetString("corpus")
	}
}

func serveHTTP(ctx context.Context, cfg config.Config, handler http.Handler, log *slog.Logger) error {
	// No write timeout: event streams stay open for the life of a session.
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting grokmcp", "transport", cfg.Transport, "addr", cfg.Addr(), "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
