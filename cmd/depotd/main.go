// Package main implements the entry point for the depot data service.
// Depot is a research data repository backed by a SPARQL endpoint, exposing
// datasets, collections, accounts and the surrounding record types through
// a cached data-access layer.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scidepot/depot/cache"
	"github.com/scidepot/depot/config"
	"github.com/scidepot/depot/metric"
	"github.com/scidepot/depot/pkg/retry"
	"github.com/scidepot/depot/repository"
	"github.com/scidepot/depot/sparql"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "depotd"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	ctx := context.Background()
	repo, registry := setupDataLayer(cfg, logger)

	if err := loadState(ctx, cfg, repo); err != nil {
		return err
	}

	return serveMetrics(ctx, cfg, registry, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting depot (research data repository)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// setupDataLayer wires the SPARQL client, the result cache and the
// repository against one metrics registry.
func setupDataLayer(cfg *config.Config, logger *slog.Logger) (*repository.Repository, *metric.Registry) {
	registry := metric.NewRegistry()

	client := sparql.NewClient(cfg.Endpoint,
		sparql.WithLogger(logger),
		sparql.WithMetrics(registry.Metrics))

	layer := cache.NewLayer(cfg.CacheRoot,
		cache.WithLogger(logger),
		cache.WithMetrics(registry.PrometheusRegistry(), "results"))
	if !layer.Ready() {
		slog.Warn("Query result cache is disabled", "cache_root", cfg.CacheRoot)
	}

	opts := []repository.Option{
		repository.WithCache(layer),
		repository.WithPrivileges(cfg),
		repository.WithMetrics(registry.Metrics),
		repository.WithLogger(logger),
	}
	if cfg.BaseNamespace != "" {
		opts = append(opts, repository.WithBase(cfg.BaseNamespace))
	}

	return repository.New(client, cfg.StateGraph, opts...), registry
}

// loadState reconciles the identifier counters against the store. Secondary
// workers skip reconciliation; the primary has done it already and reading
// stale maxima could lower nothing but still waste startup time.
func loadState(ctx context.Context, cfg *config.Config, repo *repository.Repository) error {
	if cfg.SecondaryWorker {
		slog.Info("Secondary worker, skipping state reconciliation")
		repo.MarkStateLoaded()
		return nil
	}

	slog.Info("Reconciling identifier counters", "state_graph", cfg.StateGraph)
	err := retry.Do(ctx, retry.Quick(), func() error {
		return repo.LoadState(ctx)
	})
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	return nil
}

// serveMetrics exposes the Prometheus endpoint and blocks until a shutdown
// signal arrives.
func serveMetrics(ctx context.Context, cfg *config.Config, registry *metric.Registry, shutdownTimeout time.Duration) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		registry.PrometheusRegistry(),
		promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              cfg.MetricsListen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving metrics", "listen", cfg.MetricsListen)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-signalCtx.Done():
	}

	slog.Info("Shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
