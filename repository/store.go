package repository

import (
	"context"

	"github.com/scidepot/depot/sparql"
)

// Store executes rendered queries against the graph store. *sparql.Client
// is the production implementation; tests substitute a scripted store.
type Store interface {
	// Query runs a SELECT and returns normalized rows.
	Query(ctx context.Context, query string) ([]sparql.Row, error)

	// Update runs a mutation and returns the store's raw status message.
	Update(ctx context.Context, query string) (string, error)

	// IsUp reports current endpoint connectivity. Callers needing to
	// distinguish "no rows" from "store unreachable" consult this.
	IsUp() bool
}
