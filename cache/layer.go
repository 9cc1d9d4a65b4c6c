package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/scidepot/depot/sparql"
)

// Layer is the query-result cache consulted by the repository. Entries are
// addressed by a namespace prefix plus a key derived from the exact query
// text, so two structurally identical queries collide and any change to
// filters, ordering or pagination misses. Every mutating operation
// invalidates the prefixes whose data it could have affected, synchronously
// with the write's success.
//
// Entries persist as JSON files under a storage root so cached results
// survive restarts. When the root is unset or cannot be prepared the layer
// is "not ready": all operations degrade to cache-miss behavior and callers
// proceed against the store.
type Layer struct {
	root   string
	ready  bool
	memory Cache[[]sparql.Row]
	logger *slog.Logger
}

// NewLayer creates a cache layer rooted at the given storage directory. An
// empty root yields a not-ready layer, which is valid: every lookup misses
// and every store is a no-op.
func NewLayer(root string, opts ...Option) *Layer {
	options := applyOptions(opts...)

	layer := &Layer{
		root:   root,
		logger: options.logger,
	}

	memory, err := NewMemory[[]sparql.Row](opts...)
	if err != nil {
		options.logger.Warn("cache metrics unavailable", "error", err)
		memory, _ = NewMemory[[]sparql.Row]()
	}
	layer.memory = memory

	if root == "" {
		return layer
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		options.logger.Warn("cache storage root unavailable", "root", root, "error", err)
		return layer
	}
	layer.ready = true
	return layer
}

// Ready reports whether the storage backend is usable. Not-ready is
// independently observable so startup logging can warn operators without
// failing the process.
func (l *Layer) Ready() bool {
	return l.ready
}

// MakeKey derives the cache key for the given content, normally the exact
// query text. The digest is an addressing scheme, not a security boundary.
func (l *Layer) MakeKey(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CachedValue returns the cached rows for prefix and key, or false on miss.
func (l *Layer) CachedValue(prefix, key string) ([]sparql.Row, bool) {
	if !l.ready {
		return nil, false
	}

	name := entryName(prefix, key)
	if rows, ok := l.memory.Get(name); ok {
		return rows, true
	}

	data, err := os.ReadFile(filepath.Join(l.root, name))
	if err != nil {
		return nil, false
	}

	var rows []sparql.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		l.logger.Warn("discarding unreadable cache entry", "entry", name, "error", err)
		_ = os.Remove(filepath.Join(l.root, name))
		return nil, false
	}

	_, _ = l.memory.Set(name, rows)
	return rows, true
}

// CacheValue stores rows under prefix and key. Storage failures are logged
// and otherwise ignored; the cache never fails a read path.
func (l *Layer) CacheValue(prefix, key string, rows []sparql.Row) {
	if !l.ready {
		return
	}

	name := entryName(prefix, key)
	data, err := json.Marshal(rows)
	if err != nil {
		l.logger.Warn("cache entry not serializable", "entry", name, "error", err)
		return
	}

	// Write-then-rename so a concurrent reader never sees a partial entry.
	tmp := filepath.Join(l.root, name+".tmp."+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		l.logger.Warn("cache entry not written", "entry", name, "error", err)
		return
	}
	if err := os.Rename(tmp, filepath.Join(l.root, name)); err != nil {
		l.logger.Warn("cache entry not written", "entry", name, "error", err)
		_ = os.Remove(tmp)
		return
	}
	_, _ = l.memory.Set(name, rows)
}

// InvalidateByPrefix removes every entry under the given prefix. It runs
// synchronously: once it returns, no reader observes a value cached under
// the prefix before the call. Invalidating an already-empty prefix is a
// no-op with the same observable effect.
func (l *Layer) InvalidateByPrefix(prefix string) {
	if !l.ready {
		return
	}

	marker := prefix + "_"
	for _, name := range l.memory.Keys() {
		if strings.HasPrefix(name, marker) {
			_, _ = l.memory.Delete(name)
		}
	}

	entries, err := os.ReadDir(l.root)
	if err != nil {
		l.logger.Warn("cache storage root unreadable during invalidation",
			"root", l.root, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), marker) {
			_ = os.Remove(filepath.Join(l.root, entry.Name()))
		}
	}
}

// InvalidateAll removes every cache entry.
func (l *Layer) InvalidateAll() {
	if !l.ready {
		return
	}

	_ = l.memory.Clear()

	entries, err := os.ReadDir(l.root)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			_ = os.Remove(filepath.Join(l.root, entry.Name()))
		}
	}
}

// Stats returns statistics of the in-memory tier.
func (l *Layer) Stats() *Statistics {
	return l.memory.Stats()
}

// entryName composes the storage name for a prefix and key. The underscore
// separator is part of the invalidation contract: InvalidateByPrefix("a")
// must not remove entries under prefix "ab".
func entryName(prefix, key string) string {
	return prefix + "_" + key
}
