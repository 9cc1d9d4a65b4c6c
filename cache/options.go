package cache

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures cache behavior using the functional options pattern.
type Option func(*cacheOptions)

// cacheOptions holds internal configuration for cache instances.
// Statistics are always collected; metrics are optional.
type cacheOptions struct {
	metricsReg    prometheus.Registerer
	metricsPrefix string
	logger        *slog.Logger
}

// WithMetrics enables Prometheus metrics export for cache statistics.
// If registry is nil, this option is ignored.
func WithMetrics(registry prometheus.Registerer, prefix string) Option {
	return func(opts *cacheOptions) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithLogger sets the structured logger used by the Layer.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *cacheOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// applyOptions applies functional options to create final cache configuration.
func applyOptions(options ...Option) *cacheOptions {
	opts := &cacheOptions{
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
