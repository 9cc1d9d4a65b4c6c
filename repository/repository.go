// Package repository is the public surface of the depot data layer: read
// operations returning normalized rows and write operations that compose
// insert subgraphs or rendered mutations, execute them against the store,
// and invalidate the affected cache prefixes.
//
// The repository swallows store faults on the read path: connectivity
// failures, malformed queries and unclassified backend errors are logged
// and degrade to an empty result list. Callers that need to distinguish
// "no rows" from "store unreachable" consult Store.IsUp.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scidepot/depot/cache"
	"github.com/scidepot/depot/counters"
	"github.com/scidepot/depot/errors"
	"github.com/scidepot/depot/metric"
	"github.com/scidepot/depot/rdf"
	"github.com/scidepot/depot/sparql"
)

const component = "repository"

// Cache prefixes. Writes invalidate every prefix whose data they could
// have affected; over-invalidation costs performance, never correctness.
const (
	prefixDatasets   = "datasets"
	prefixArticle    = "article"
	prefixCollection = "collection"
	prefixAccounts   = "accounts"
	prefixAuthors    = "authors"
	prefixCategory   = "category"
	prefixGroup      = "group"
	prefixStorage    = "storage"
	prefixSession    = "session"
	prefixStatistics = "statistics"
	prefixLicenses   = "licenses"
)

// versionPrefix scopes cache entries to one item version, so child-record
// writes can invalidate narrowly alongside the broad item prefix.
func versionPrefix(versionID int64) string {
	return fmt.Sprintf("%d_article", versionID)
}

// Repository provides the read and write operations over the versioned
// entity data model.
type Repository struct {
	store      Store
	cache      *cache.Layer
	allocator  *counters.Allocator
	privileges PrivilegeResolver
	metrics    *metric.Metrics
	logger     *slog.Logger
	stateGraph string
	base       string
}

// Option configures a Repository.
type Option func(*Repository)

// WithCache sets the query-result cache layer.
func WithCache(layer *cache.Layer) Option {
	return func(r *Repository) {
		r.cache = layer
	}
}

// WithPrivileges sets the privilege resolver merged onto account reads.
func WithPrivileges(resolver PrivilegeResolver) Option {
	return func(r *Repository) {
		r.privileges = resolver
	}
}

// WithMetrics enables invalidation counting.
func WithMetrics(metrics *metric.Metrics) Option {
	return func(r *Repository) {
		r.metrics = metrics
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithBase overrides the IRI base for rows, columns and types.
func WithBase(base string) Option {
	return func(r *Repository) {
		r.base = base
	}
}

// New creates a repository over the given store, scoped to the state graph.
func New(store Store, stateGraph string, opts ...Option) *Repository {
	r := &Repository{
		store:      store,
		stateGraph: stateGraph,
		base:       rdf.DepotBase,
		allocator:  counters.NewAllocator(),
		privileges: NoPrivileges{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		// A not-ready layer: every lookup misses, every store is a no-op.
		r.cache = cache.NewLayer("")
	}
	return r
}

// params seeds the template parameters every render receives.
func (r *Repository) params() map[string]any {
	return map[string]any{
		"base":        r.base,
		"state_graph": r.stateGraph,
		"filters":     "",
		"suffix":      "",
		"constraints": "",
	}
}

// runQuery executes a read query through the cache. Store faults degrade to
// an empty list.
func (r *Repository) runQuery(ctx context.Context, prefix, query string) []sparql.Row {
	key := r.cache.MakeKey(query)
	if rows, ok := r.cache.CachedValue(prefix, key); ok {
		return rows
	}

	rows, err := r.store.Query(ctx, query)
	if err != nil {
		r.logger.Error("query degraded to empty result",
			"class", errors.Classify(err).String(), "error", err)
		return []sparql.Row{}
	}

	r.cache.CacheValue(prefix, key, rows)
	return rows
}

// runUpdate executes a mutation and, on success, synchronously invalidates
// the given cache prefixes before returning.
func (r *Repository) runUpdate(ctx context.Context, operation, query string, prefixes ...string) error {
	if _, err := r.store.Update(ctx, query); err != nil {
		return errors.Wrap(err, component, operation, "store update failed")
	}
	r.invalidate(prefixes...)
	return nil
}

func (r *Repository) invalidate(prefixes ...string) {
	for _, prefix := range prefixes {
		r.cache.InvalidateByPrefix(prefix)
		if r.metrics != nil {
			r.metrics.CacheInvalidations.WithLabelValues(prefix).Inc()
		}
	}
}

// LoadState reconciles the identifier allocator against the store's highest
// existing identifiers. It must run once before any write operation in a
// multi-process deployment; secondary workers sharing an initialized store
// may skip it. An empty store is a distinguished non-fatal condition; an
// unreachable store leaves the allocator unset and returns an unknown
// database state error.
func (r *Repository) LoadState(ctx context.Context) error {
	var failed int
	var populated int

	for _, kind := range counters.Kinds() {
		params := r.params()
		params["type"] = className(kind)
		query, err := render("highest_id", params)
		if err != nil {
			return err
		}

		rows, err := r.store.Query(ctx, query)
		if err != nil {
			failed++
			continue
		}
		if len(rows) == 0 || !rows[0].Has("id") {
			continue
		}

		highest := rows[0].Int("id")
		if highest > 0 {
			populated++
		}
		if err := r.allocator.SetID(kind, highest); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.WrapTransient(errors.ErrUnknownDatabaseState, component, "LoadState",
			fmt.Sprintf("highest-id reconciliation failed for %d of %d kinds", failed, len(counters.Kinds())))
	}

	if populated == 0 {
		// Kinds co-occur in practice, so all-empty means a fresh store
		// rather than a partially missing one.
		r.logger.Warn("the database is empty", "condition", errors.ErrEmptyDatabase.Error())
	}

	r.allocator.MarkInitialized()
	r.logCounters()
	return nil
}

// MarkStateLoaded declares the store already reconciled by another process.
// Secondary workers call this instead of LoadState.
func (r *Repository) MarkStateLoaded() {
	r.allocator.MarkInitialized()
}

// CurrentIDs reports the allocator's counter per kind, for startup logging.
func (r *Repository) CurrentIDs() map[string]int64 {
	ids := make(map[string]int64, len(counters.Kinds()))
	for _, kind := range counters.Kinds() {
		id, err := r.allocator.CurrentID(kind)
		if err != nil {
			continue
		}
		ids[kind.String()] = id
	}
	return ids
}

func (r *Repository) logCounters() {
	for kind, id := range r.CurrentIDs() {
		r.logger.Debug("identifier counter reconciled", "kind", kind, "id", id)
	}
}

// CacheReady reports whether the persistent cache backend is usable, so
// startup logging can warn operators without failing the process.
func (r *Repository) CacheReady() bool {
	return r.cache.Ready()
}
