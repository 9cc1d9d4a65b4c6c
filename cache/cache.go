// Package cache provides the query-result cache for the data layer.
//
// Two pieces work together:
//   - a generic, thread-safe in-memory cache with statistics and optional
//     Prometheus metrics (memoryCache), and
//   - Layer, the prefix-aware, content-addressed cache with a filesystem
//     storage root, which is what the repository consults on reads and
//     invalidates on writes.
package cache

import (
	"github.com/scidepot/depot/errors"
)

// Cache is a generic thread-safe cache. The cache is parameterized by value
// type V for type safety.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// zero value and false otherwise.
	Get(key string) (V, bool)

	// Set stores a value with the given key. Returns true if a new entry
	// was created, false if updated.
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear() error

	// Size returns the current number of entries in the cache.
	Size() int

	// Keys returns a slice of all keys currently in the cache.
	Keys() []string

	// Stats returns cache statistics. Statistics are always collected.
	Stats() *Statistics
}

// validateKey validates a cache key for basic requirements.
func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "cache", "validateKey", "key cannot be empty")
	}
	return nil
}
